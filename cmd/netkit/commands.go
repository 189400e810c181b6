package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/samvad-hq/samvad-netkit/internal/app"
	"github.com/samvad-hq/samvad-netkit/internal/config"
	"github.com/samvad-hq/samvad-netkit/pkg/problem"
	"github.com/spf13/cobra"
)

func newRootCmd(cfg *config.Config, fetcher *app.Fetcher, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "netkit",
		Short:         "Fetch URLs and inspect problem details responses",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("output", "o", cfg.OutputFormat, "output format for structured results (json|yaml)")

	root.AddCommand(newGetCmd(fetcher, out), newSendCmd(fetcher, out))
	return root
}

func newGetCmd(fetcher *app.Fetcher, out io.Writer) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "get <url>",
		Short: "GET a URL and print the body as text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			body, err := fetcher.Get(cmd.Context(), args[0], timeout)
			if err != nil {
				var details *problem.Details
				if errors.As(err, &details) {
					if rerr := app.Render(out, format, details); rerr != nil {
						return rerr
					}
				}
				return err
			}

			_, err = fmt.Fprint(out, body)
			return err
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-request timeout (0 uses the transport default)")
	return cmd
}

func newSendCmd(fetcher *app.Fetcher, out io.Writer) *cobra.Command {
	var (
		timeout time.Duration
		data    string
		headers []string
	)

	cmd := &cobra.Command{
		Use:   "send <method> <url>",
		Short: "Send a request and print status, headers and body",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			hdrs, err := app.ParseHeaders(headers)
			if err != nil {
				return err
			}

			var body []byte
			if data != "" {
				body = []byte(data)
			}

			res, err := fetcher.Send(cmd.Context(), args[0], args[1], hdrs, body, timeout)
			if err != nil {
				return err
			}
			return app.Render(out, format, res)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-request timeout (0 uses the transport default)")
	cmd.Flags().StringVarP(&data, "data", "d", "", "request body")
	cmd.Flags().StringArrayVarP(&headers, "header", "H", nil, `request header as "Key: Value" (repeatable)`)
	return cmd
}

func outputFormat(cmd *cobra.Command) (string, error) {
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return "", err
	}
	if err := config.ValidateOutputFormat(format); err != nil {
		return "", err
	}
	return format, nil
}
