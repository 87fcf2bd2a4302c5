package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/plan-systems/klog"
	"github.com/spf13/cobra"

	"github.com/strand-systems/knotsig/goknot"
	"github.com/strand-systems/knotsig/libknot"
	"github.com/strand-systems/knotsig/libknot/catalog"
)

var (
	noReflect bool
	noReverse bool
	asTangle  bool

	enumMin int
	enumMax int
	dbPath  string
)

var rootCmd = &cobra.Command{
	Use:           "knotsig",
	Short:         "canonical signatures for knot, link, and tangle diagrams",
	SilenceUsage:  true,
	SilenceErrors: false,
}

var sigCmd = &cobra.Command{
	Use:   "sig <gauss-code>",
	Short: "compute the canonical signature of a diagram given as signed Gauss code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code := args[0]
		var d goknot.Diagram
		if strings.ContainsRune(code, ':') {
			T, err := libknot.NewTangleFromGauss(code)
			if err != nil {
				return err
			}
			d = T
		} else {
			L, err := libknot.NewLinkFromGauss(code)
			if err != nil {
				return err
			}
			d = L
		}
		sig, err := d.Sig(!noReflect, !noReverse)
		if err != nil {
			return err
		}
		fmt.Println(sig)
		return nil
	},
}

var decodeCmd = &cobra.Command{
	Use:   "decode <sig>",
	Short: "rebuild a diagram from its signature and print it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sig := goknot.Signature(args[0])
		opts := goknot.PrintOpts{
			GaussCode: true,
			Crossings: true,
			Sig:       true,
		}
		var d goknot.Diagram
		if asTangle {
			T, err := libknot.DecodeTangleSig(sig)
			if err != nil {
				return err
			}
			d = T
		} else {
			L, err := libknot.DecodeLinkSig(sig)
			if err != nil {
				return err
			}
			d = L
		}
		b := strings.Builder{}
		d.WriteAsString(&b, opts)
		fmt.Println(b.String())
		return nil
	},
}

var enumCmd = &cobra.Command{
	Use:   "enum",
	Short: "enumerate knot diagrams and catalog their canonical signatures",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := goknot.NewCatalogContext()
		defer func() {
			ctx.Close()
			<-ctx.Done()
		}()

		var cat goknot.Catalog
		if dbPath != "" {
			var err error
			cat, err = catalog.OpenCatalog(ctx, goknot.CatalogOpts{
				DbPathName:    dbPath,
				CrossingLimit: enumMax,
			})
			if err != nil {
				return err
			}
		} else {
			cat = libknot.NewSigSet()
		}

		total := libknot.EnumKnots(libknot.EnumOpts{
			MinCrossings: enumMin,
			MaxCrossings: enumMax,
		}).AddTo(cat, libknot.AddSigOpts{
			UseReflection: !noReflect,
			UseReversal:   !noReverse,
		}).Print(os.Stdout, goknot.PrintOpts{
			Label: "knot",
			Sig:   true,
		}).PullAll()

		klog.Infof("cataloged %d unique knot diagrams", total)
		for n := enumMin; n <= enumMax; n++ {
			klog.Infof("n=%d: %d", n, cat.NumSigs(n))
		}
		return cat.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noReflect, "no-reflect", false, "exclude mirror images from the symmetry group")
	rootCmd.PersistentFlags().BoolVar(&noReverse, "no-reverse", false, "exclude orientation reversal from the symmetry group")

	decodeCmd.Flags().BoolVar(&asTangle, "tangle", false, "decode as a tangle signature")

	enumCmd.Flags().IntVar(&enumMin, "min", 0, "minimum crossing count")
	enumCmd.Flags().IntVar(&enumMax, "max", 4, "maximum crossing count")
	enumCmd.Flags().StringVar(&dbPath, "db", "", "catalog db path (in-memory when omitted)")

	rootCmd.AddCommand(sigCmd)
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(enumCmd)
}
