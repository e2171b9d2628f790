package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/m0rph2us/pdf-file-size-reducer/internal/document"
	"github.com/m0rph2us/pdf-file-size-reducer/internal/jpeg"
	"github.com/m0rph2us/pdf-file-size-reducer/internal/recompress"
	"github.com/m0rph2us/pdf-file-size-reducer/internal/sweep"
)

var imagesCmd = &cobra.Command{
	Use:   "images [file.pdf]",
	Short: "List the image streams of a PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runImages,
}

func init() {
	rootCmd.AddCommand(imagesCmd)
}

func runImages(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	store, err := document.OpenPDF(f)
	if err != nil {
		return err
	}

	masks := sweep.SoftMasks(store)
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OBJ\tFILTER\tSIZE\tCOLORSPACE\tBYTES\tJPEG\tSELECTED")
	for i := 0; i < store.Count(); i++ {
		obj, ok := store.Object(i)
		if !ok {
			continue
		}
		isImage, eligible := sweep.Eligible(store, obj)
		if !isImage {
			continue
		}
		if masks[obj.Index] {
			eligible = false
		}

		filter, ok := store.StreamTag(obj, "Filter")
		if !ok {
			filter = "-"
		}
		cs, ok := store.StreamTag(obj, "ColorSpace")
		if !ok {
			cs = "(array)"
		}
		width, _ := store.StreamInt(obj, "Width")
		height, _ := store.StreamInt(obj, "Height")

		data, err := store.StreamBytes(obj)
		if err != nil {
			return err
		}

		jpegDesc := "-"
		if masks[obj.Index] {
			jpegDesc = "smask"
		} else if eligible {
			if info, err := jpeg.GetInfo(data); err != nil {
				jpegDesc = "unreadable"
			} else {
				jpegDesc = info.ColorSpace.String()
				if recompress.IsYCCK(data) {
					jpegDesc += "/APP14"
				}
			}
		}

		fmt.Fprintf(tw, "%d\t%s\t%dx%d\t%s\t%s\t%s\t%v\n",
			obj.Index, filter, width, height, cs, humanSize(int64(len(data))), jpegDesc, eligible)
	}
	return tw.Flush()
}
