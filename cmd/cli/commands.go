package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/and161185/healthrec/internal/api"
	"github.com/and161185/healthrec/internal/convert"
	"github.com/and161185/healthrec/internal/model"
)

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func printRecord(cmd *cobra.Command, st *structpb.Struct) error {
	rec, err := convert.FromProtoRecord(st)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), toJSON(rec))
}

func printRecords(cmd *cobra.Command, lv *structpb.ListValue) error {
	recs, err := convert.FromProtoRecords(lv)
	if err != nil {
		return err
	}
	out := make([]recordJSON, 0, len(recs))
	for _, r := range recs {
		out = append(out, toJSON(r))
	}
	return printJSON(cmd.OutOrStdout(), out)
}

// payloadFlags binds the four content flags shared by add and update.
func payloadFlags(cmd *cobra.Command, p *model.HealthRecordPayload) {
	cmd.Flags().StringVar(&p.PatientName, "patient", "", "patient name")
	cmd.Flags().StringVar(&p.Symptoms, "symptoms", "", "comma-separated symptoms")
	cmd.Flags().StringVar(&p.Diagnosis, "diagnosis", "", "comma-separated diagnoses")
	cmd.Flags().StringVar(&p.Treatment, "treatment", "", "treatment")
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print client version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "hr %s (%s)\n", version, buildDate)
			return err
		},
	}
}

func newGetCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch a record by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd, o, func(ctx context.Context, cli *api.Client) error {
				out, err := cli.GetHealthRecord(ctx, wrapperspb.UInt64(id))
				if err != nil {
					return err
				}
				return printRecord(cmd, out)
			})
		},
	}
}

type searchFunc func(*api.Client, context.Context, *wrapperspb.StringValue, ...grpc.CallOption) (*structpb.ListValue, error)

func newSearchCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search records by exact symptom or diagnosis token",
	}
	sub := func(kind string, search searchFunc) *cobra.Command {
		return &cobra.Command{
			Use:   kind + " <token>",
			Short: "Search by " + kind,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withClient(cmd, o, func(ctx context.Context, cli *api.Client) error {
					out, err := search(cli, ctx, wrapperspb.String(args[0]))
					if err != nil {
						return err
					}
					return printRecords(cmd, out)
				})
			},
		}
	}
	cmd.AddCommand(
		sub("symptom", (*api.Client).SearchBySymptom),
		sub("diagnosis", (*api.Client).SearchByDiagnosis),
	)
	return cmd
}

func newAddCommand(o *rootOptions) *cobra.Command {
	var p model.HealthRecordPayload
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, o, func(ctx context.Context, cli *api.Client) error {
				out, err := cli.AddHealthRecord(ctx, convert.ToProtoPayload(p))
				if err != nil {
					return err
				}
				return printRecord(cmd, out)
			})
		},
	}
	payloadFlags(cmd, &p)
	return cmd
}

func newUpdateCommand(o *rootOptions) *cobra.Command {
	var p model.HealthRecordPayload
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the content of a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd, o, func(ctx context.Context, cli *api.Client) error {
				out, err := cli.UpdateHealthRecord(ctx, convert.ToProtoUpdateRequest(id, p))
				if err != nil {
					return err
				}
				return printRecord(cmd, out)
			})
		},
	}
	payloadFlags(cmd, &p)
	return cmd
}

func newRemoveCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a record and print it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withClient(cmd, o, func(ctx context.Context, cli *api.Client) error {
				out, err := cli.DeleteHealthRecord(ctx, wrapperspb.UInt64(id))
				if err != nil {
					return err
				}
				return printRecord(cmd, out)
			})
		},
	}
}

func newReindexCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the server's token indexes from storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(cmd, o, func(ctx context.Context, cli *api.Client) error {
				out, err := cli.RebuildIndexes(ctx, &emptypb.Empty{})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]uint64{"indexed": out.GetValue()})
			})
		},
	}
}
