package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/assetcache/internal/core/domain"
	"go.trai.ch/zerr"
)

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("kind", "k", "", "Asset kind the request targets")
	cmd.Flags().StringP("request", "r", "{}", "Generation request as a JSON object")
	_ = cmd.MarkFlagRequired("kind")
}

func requestFromFlags(cmd *cobra.Command) (string, domain.Value, error) {
	kind, _ := cmd.Flags().GetString("kind")
	raw, _ := cmd.Flags().GetString("request")

	req, err := parseValue(raw)
	if err != nil {
		return "", domain.Value{}, zerr.With(zerr.Wrap(err, "invalid request"), "flag", "request")
	}
	return kind, req, nil
}

// parseValue decodes a JSON document. A leading @ names a file to read it from.
func parseValue(raw string) (domain.Value, error) {
	data := []byte(raw)
	if path, ok := strings.CutPrefix(raw, "@"); ok {
		//nolint:gosec // Reading the operator supplied file is the point
		b, err := os.ReadFile(path)
		if err != nil {
			return domain.Value{}, err
		}
		data = b
	}

	var v domain.Value
	if err := json.Unmarshal(data, &v); err != nil {
		return domain.Value{}, err
	}
	return v, nil
}

func (c *CLI) newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the cached artifact for a request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, req, err := requestFromFlags(cmd)
			if err != nil {
				return err
			}

			artifact, found, err := c.app.Get(cmd.Context(), configPath(cmd), kind, req)
			if err != nil {
				return err
			}
			if !found {
				return errors.Join(domain.ErrEntryMissing, zerr.With(zerr.New("cache miss"), "kind", kind))
			}

			data, err := json.Marshal(artifact)
			if err != nil {
				return zerr.Wrap(err, "failed to encode artifact")
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	addRequestFlags(cmd)
	return cmd
}

func (c *CLI) newPutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put",
		Short: "Store an artifact for a request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, req, err := requestFromFlags(cmd)
			if err != nil {
				return err
			}

			raw, _ := cmd.Flags().GetString("artifact")
			artifact, err := parseValue(raw)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "invalid artifact"), "flag", "artifact")
			}

			key, err := c.app.Put(cmd.Context(), configPath(cmd), kind, req, artifact)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), key.String())
			return nil
		},
	}
	addRequestFlags(cmd)
	cmd.Flags().StringP("artifact", "a", "", "Artifact as JSON, or @path to read it from a file")
	_ = cmd.MarkFlagRequired("artifact")
	return cmd
}

func (c *CLI) newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm",
		Short: "Remove the cached artifact for a request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, req, err := requestFromFlags(cmd)
			if err != nil {
				return err
			}
			return c.app.Remove(cmd.Context(), configPath(cmd), kind, req)
		},
	}
	addRequestFlags(cmd)
	return cmd
}
