// Command digestsum prints cryptographic digests of files or standard
// input, in the style of the coreutils *sum tools.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pchchv/digest"
)

var kinds = map[string]digest.Kind{
	"md5":          digest.MD5,
	"sha1":         digest.SHA1,
	"sha256":       digest.SHA256,
	"sha384":       digest.SHA384,
	"sha512":       digest.SHA512,
	"rmd160":       digest.RMD160,
	"bubblebabble": digest.BubbleBabble,
}

var (
	algorithm string
	babble    bool
	logLevel  string

	rootCmd = &cobra.Command{
		Use:     "digestsum [file...]",
		Short:   "Print cryptographic digests of files or standard input",
		Example: "digestsum -a sha256 main.go",
		RunE:    runDigestSum,
	}
)

func init() {
	rootCmd.Flags().StringVarP(&algorithm, "algorithm", "a", "sha256", "Digest algorithm: md5, sha1, sha256, sha384, sha512, rmd160 or bubblebabble.")
	rootCmd.Flags().BoolVar(&babble, "babble", false, "Print the BubbleBabble encoding of each digest instead of hex.")
	rootCmd.Flags().StringVar(&logLevel, "log-level", log.WarnLevel.String(), "The logging level.")
}

func runDigestSum(cmd *cobra.Command, args []string) error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", logLevel)
	}
	log.SetLevel(level)

	kind, ok := kinds[strings.ToLower(algorithm)]
	if !ok {
		return errors.Errorf("unknown algorithm %q", algorithm)
	}

	if len(args) == 0 {
		return sumOne(cmd, kind, "-", os.Stdin)
	}

	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "opening %s", path)
		}

		err = sumOne(cmd, kind, path, f)
		f.Close()
		if err != nil {
			return err
		}
	}

	return nil
}

func sumOne(cmd *cobra.Command, kind digest.Kind, name string, r io.Reader) error {
	d, err := digest.New(kind)
	if err != nil {
		return err
	}

	n, err := io.Copy(d, r)
	if err != nil {
		return errors.Wrapf(err, "reading %s", name)
	}
	log.WithField("file", name).WithField("bytes", n).Debug("digested input")

	sum := d.DigestFinal()
	out := digest.Hexencode(sum)
	if babble {
		out = digest.Babble(sum)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", out, name)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Fatal("digestsum failed")
	}
}
