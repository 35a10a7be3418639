// Copyright 2025 AxonFlow
// SPDX-License-Identifier: BUSL-1.1
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hello-adam-martin/flowlang/flow"
)

// runCmd implements `flowctl run <file.yaml> [--input k=v]...`: parses,
// validates, and executes a flow document against the built-in task
// catalog, printing the resulting flow.Result as JSON.
func runCmd() *cobra.Command {
	var rawInputs []string

	cmd := &cobra.Command{
		Use:   "run <file.yaml>",
		Short: "Run a flow document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading flow document: %w", err)
			}

			def, err := flow.ParseDefinition(data)
			if err != nil {
				return err
			}
			if err := flow.Validate(def); err != nil {
				return err
			}

			inputs, err := parseInputFlags(rawInputs)
			if err != nil {
				return err
			}

			registry := buildRegistry()
			executor := flow.NewExecutor(registry)
			result := executor.Execute(cmd.Context(), def, inputs, nil, nil)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}

			if !result.Success {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&rawInputs, "input", nil, "flow input in key=value form, may be repeated")
	return cmd
}

// parseInputFlags turns repeated --input key=value flags into the
// flow's top-level inputs map. Values that parse as a number or bool
// are coerced; everything else stays a string.
func parseInputFlags(raw []string) (map[string]interface{}, error) {
	inputs := map[string]interface{}{}
	for _, kv := range raw {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid --input %q, expected key=value", kv)
		}
		inputs[parts[0]] = coerceInputValue(parts[1])
	}
	return inputs, nil
}

func coerceInputValue(s string) interface{} {
	if s == "true" {
		return true
	}
	if s == "false" {
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
