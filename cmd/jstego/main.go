// Command jstego hides a secret inside a JPEG file's Huffman tables,
// or recovers one previously hidden there.
//
// Usage:
//
//	jstego <path>                       print a debug dump of the image
//	jstego <path> write <output> <secret>   embed secret, save to output
//	jstego <path> read                  print the secret, if any
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/jpegsteg/jpegsteg"
	"github.com/jpegsteg/jpegsteg/internal/telemetry"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <path> [write <output> <secret> | read]\n", os.Args[0])
}

func main() {
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	logger := telemetry.New(telemetry.Options{Verbose: *verbose})
	defer logger.Sync()

	if err := run(logger, args); err != nil {
		logger.Error("jstego failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(logger *zap.Logger, args []string) error {
	path := args[0]
	jpg, err := jpeg.Read(path, &jpeg.Control{})
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	logger.Debug("parsed image", zap.String("path", path), zap.Int("segments", len(jpg.Segments)))

	rest := args[1:]
	if len(rest) == 0 {
		_, err := jpg.Dump(os.Stdout)
		return errors.Wrap(err, "dumping image")
	}

	switch rest[0] {
	case "write":
		if len(rest) != 3 {
			usage()
			return fmt.Errorf("write: expected <output> <secret>")
		}
		output, secret := rest[1], rest[2]
		capacity, err := jpg.Capacity()
		if err != nil {
			return errors.Wrap(err, "computing capacity")
		}
		fmt.Printf("Maximum message length: ~%d bytes\n", capacity)

		out, err := jpg.WriteSecret([]byte(secret))
		if err != nil {
			return errors.Wrap(err, "writing secret")
		}
		n, err := out.Write(output)
		if err != nil {
			return errors.Wrapf(err, "saving %s", output)
		}
		logger.Info("wrote secret", zap.String("output", output), zap.Int("bytes", n))
		return nil

	case "read":
		secret, found, err := jpg.ReadSecret()
		if err != nil {
			return errors.Wrap(err, "reading secret")
		}
		if !found {
			fmt.Println("no message")
			return nil
		}
		fmt.Printf("%s\n", secret)
		return nil

	default:
		usage()
		return fmt.Errorf("unknown subcommand %q", rest[0])
	}
}
