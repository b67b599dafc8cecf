// Command hr is a CLI client for the health record service.
package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/and161185/healthrec/internal/api"
	"github.com/and161185/healthrec/internal/model"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// rootOptions holds global flags shared by every command.
type rootOptions struct {
	Addr      string
	CACert    string
	Insecure  bool
	Plaintext bool
	Timeout   time.Duration

	// dial is replaced in tests.
	dial func(o *rootOptions) (*grpc.ClientConn, error)
}

// ---- grpc dial ----

func loadTLS(caPath string, skipVerify bool) (credentials.TransportCredentials, error) {
	if skipVerify {
		return credentials.NewTLS(&tls.Config{InsecureSkipVerify: true}), nil
	}
	if caPath == "" {
		return credentials.NewClientTLSFromCert(nil, ""), nil
	}
	pem, err := os.ReadFile(caPath)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, errors.New("bad CA cert")
	}
	return credentials.NewTLS(&tls.Config{RootCAs: pool}), nil
}

func dial(o *rootOptions) (*grpc.ClientConn, error) {
	creds := insecure.NewCredentials()
	if !o.Plaintext {
		var err error
		if creds, err = loadTLS(o.CACert, o.Insecure); err != nil {
			return nil, err
		}
	}
	return grpc.NewClient(o.Addr, grpc.WithTransportCredentials(creds))
}

// withClient dials the server, runs fn with a deadline-bound context and closes the
// connection.
func withClient(cmd *cobra.Command, o *rootOptions, fn func(ctx context.Context, cli *api.Client) error) error {
	cc, err := o.dial(o)
	if err != nil {
		return err
	}
	defer cc.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), o.Timeout)
	defer cancel()
	return fn(ctx, api.NewClient(cc))
}

// ---- output ----

type recordJSON struct {
	ID          uint64     `json:"id"`
	PatientName string     `json:"patient_name"`
	Symptoms    string     `json:"symptoms"`
	Diagnosis   string     `json:"diagnosis"`
	Treatment   string     `json:"treatment"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func toJSON(r model.HealthRecord) recordJSON {
	return recordJSON{
		ID:          r.ID,
		PatientName: r.PatientName,
		Symptoms:    r.Symptoms,
		Diagnosis:   r.Diagnosis,
		Treatment:   r.Treatment,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// describe renders gRPC status errors as code and message.
func describe(err error) string {
	if s, ok := status.FromError(err); ok {
		return fmt.Sprintf("rpc error: code=%s msg=%s", s.Code(), s.Message())
	}
	return err.Error()
}

// ---- root ----

func newRootCommand(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hr",
		Short:         "Health record service client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if o.Plaintext && (o.Insecure || o.CACert != "") {
				return errors.New("--plaintext excludes --cacert and --insecure")
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&o.Addr, "addr", "localhost:8443", "server addr")
	cmd.PersistentFlags().StringVar(&o.CACert, "cacert", "", "CA cert (PEM)")
	cmd.PersistentFlags().BoolVar(&o.Insecure, "insecure", false, "skip cert verify (dev)")
	cmd.PersistentFlags().BoolVar(&o.Plaintext, "plaintext", false, "connect without TLS")
	cmd.PersistentFlags().DurationVar(&o.Timeout, "timeout", 30*time.Second, "per-command deadline")

	cmd.AddCommand(
		newVersionCommand(),
		newGetCommand(o),
		newSearchCommand(o),
		newAddCommand(o),
		newUpdateCommand(o),
		newRemoveCommand(o),
		newReindexCommand(o),
	)
	return cmd
}

// main runs the root command and maps failures to a non-zero exit.
func main() {
	o := &rootOptions{dial: dial}
	if err := newRootCommand(o).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}
}
