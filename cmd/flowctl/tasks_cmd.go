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
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hello-adam-martin/flowlang/flow"
)

// tasksCmd implements `flowctl tasks list`: prints the registered task
// catalog, one row per task, with its implementation status and params.
func tasksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Inspect the registered task catalog",
	}
	cmd.AddCommand(tasksListCmd())
	return cmd
}

func tasksListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered task catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := buildRegistry()
			tasks := registry.List()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tIMPLEMENTED\tPARAMS")
			for _, t := range tasks {
				fmt.Fprintf(w, "%s\t%t\t%s\n", t.Name, t.Implemented, formatParams(t.Params))
			}
			return w.Flush()
		},
	}
}

func formatParams(params []flow.ParamSpec) string {
	labels := make([]string, 0, len(params))
	for _, p := range params {
		label := p.Name
		if p.Required {
			label += "*"
		}
		if p.IsConnection {
			label += " (connection)"
		}
		labels = append(labels, label)
	}
	return strings.Join(labels, ", ")
}
