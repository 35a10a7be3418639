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

import "github.com/prometheus/client_golang/prometheus"

// Metrics mirrors the teacher's OrchestratorMetrics pattern (counters
// registered at package init, labeled by outcome/kind) adapted to the
// flow engine's own vocabulary: executions and step failures by error
// kind, plus retry backoff wait time.
var (
	executionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowd_executions_total",
			Help: "Total flow executions, labeled by outcome (success/failure).",
		},
		[]string{"outcome"},
	)

	stepFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowd_step_failures_total",
			Help: "Total step failures, labeled by error kind.",
		},
		[]string{"kind"},
	)

	validationFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "flowd_validation_failures_total",
			Help: "Total flow documents that failed validation.",
		},
	)
)

func init() {
	prometheus.MustRegister(executionsTotal, stepFailuresTotal, validationFailuresTotal)
}

func recordExecution(outcome string) {
	executionsTotal.WithLabelValues(outcome).Inc()
}

func recordStepFailure(kind string) {
	stepFailuresTotal.WithLabelValues(kind).Inc()
}
