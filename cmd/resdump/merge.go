package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/wippyai/pe-emit/emit"
	"github.com/wippyai/pe-emit/nopia"
	"github.com/wippyai/pe-emit/security"
	"github.com/wippyai/pe-emit/win32res"
)

// resourceWriter keeps the .res image produced by a module builder.
type resourceWriter struct {
	res []byte
}

func (w *resourceWriter) WriteExceptionSection(string, []byte) error { return nil }

func (w *resourceWriter) WriteResources(res []byte) error {
	w.res = res
	return nil
}

func (w *resourceWriter) WriteSecurityAttribute(string, security.Action, uint32) error { return nil }

func (w *resourceWriter) WriteEmbeddedType(*nopia.EmbeddedType) error { return nil }

// merge combines the inputs under opts and returns the merged .res image with
// the builder's diagnostics.
func merge(opts emit.Options, inputs []string) ([]byte, *emit.ModuleBuilder, error) {
	b := emit.NewModuleBuilder(nil, nil, opts)
	var errs error
	for _, path := range inputs {
		errs = multierr.Append(errs, b.AddResourceFile(path))
	}

	w := &resourceWriter{}
	if err := b.Emit(w); err != nil {
		return nil, b, err
	}
	if w.res == nil {
		var buf bytes.Buffer
		if err := win32res.WriteRES(&buf, nil); err != nil {
			return nil, b, err
		}
		w.res = buf.Bytes()
	}
	return w.res, b, errs
}

func newMergeCmd(g *globalOptions) *cobra.Command {
	var output string
	var reject bool
	cmd := &cobra.Command{
		Use:   "merge -o <out.res> <in.res>...",
		Short: "Merge .res files into one",
		Long: "Merge concatenates the resources of every input in order. Duplicate\n" +
			"type/name/language entries are kept unless the options reject them.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("no output file given")
			}
			opts, err := loadOptions(g)
			if err != nil {
				return err
			}
			if reject {
				opts.DuplicateResources = win32res.Reject
			}

			res, b, err := merge(opts, args)
			for _, d := range b.Diagnostics().Sorted() {
				fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(d.String()))
			}
			if res == nil {
				return err
			}
			if werr := os.WriteFile(output, res, 0o644); werr != nil {
				return werr
			}
			dir := b.Resources()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s): %s\n",
				titleStyle.Render("MERGED"), output, dir.Policy(), describeTypes(dir.Entries()))
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output .res file")
	cmd.Flags().BoolVar(&reject, "reject-duplicates", false, "Refuse duplicate resources")
	return cmd
}
