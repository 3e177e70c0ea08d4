package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wordstream/internal/server"
	"github.com/matzehuels/wordstream/pkg/config"
	"github.com/matzehuels/wordstream/pkg/pipeline"
)

// schemaTargets maps schema names to their reflected schemas.
var schemaTargets = map[string]func() *jsonschema.Schema{
	"cloud":   generateSchema[server.CloudRequest],
	"stream":  generateSchema[pipeline.StreamOptions],
	"session": generateSchema[server.SessionResponse],
	"config":  generateSchema[config.Config],
}

func generateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

func schemaNames() []string {
	names := make([]string, 0, len(schemaTargets))
	for name := range schemaTargets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// schemaCommand creates the schema command.
func (c *CLI) schemaCommand() *cobra.Command {
	names := schemaNames()
	return &cobra.Command{
		Use:       "schema [" + strings.Join(names, "|") + "]",
		Short:     "Print the JSON Schema of a request body or the config file",
		ValidArgs: names,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(schemaTargets[args[0]](), "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}
