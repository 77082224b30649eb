package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cristianadrielbraun/qrstudio/internal/payload"
	"github.com/cristianadrielbraun/qrstudio/internal/scan"
)

func newDecodeCmd(a *app) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "decode <image>",
		Short: "Read the payload back from a PNG or JPEG QR code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := scan.ScanFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if raw {
				fmt.Fprintln(out, text)
				return nil
			}
			t := payload.Detect(text)
			a.log.Debug().Str("type", t.String()).Msg("decoded")
			fmt.Fprintf(out, "Type:    %s\n", t)
			if t == payload.WiFi {
				if n, err := payload.ParseWiFi(text); err == nil {
					fmt.Fprintf(out, "SSID:    %s\nSecurity: %s\nPassword: %s\nHidden:  %t\n",
						n.SSID, n.Security, n.Password, n.Hidden)
					return nil
				}
			}
			fmt.Fprintf(out, "Payload: %s\n", text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print only the payload")
	return cmd
}
