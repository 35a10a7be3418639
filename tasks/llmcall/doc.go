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

// Package llmcall provides the llm_call task handler: a flow task that
// invokes an Anthropic Claude model hosted on AWS Bedrock. It is an
// example registered task, not part of the execution core — the engine
// never imports it, a caller wires it into a flow.TaskRegistry the same
// way it would wire any other task.
//
// Credentials for the Bedrock and Secrets Manager clients come from the
// default AWS credential chain (environment, shared config, instance
// role); callers running against LocalStack or a test account override
// this by passing a pre-built aws.Config.
package llmcall
