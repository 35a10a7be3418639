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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hello-adam-martin/flowlang/flow"
)

// validateCmd implements `flowctl validate <file.yaml>`: structural
// validation only, no execution. Exits non-zero on a DefinitionError.
func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.yaml>",
		Short: "Validate a flow document without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading flow document: %w", err)
			}

			def, err := flow.ParseDefinition(data)
			if err == nil {
				err = flow.Validate(def)
			}
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "invalid:", err)
				os.Exit(1)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
}
