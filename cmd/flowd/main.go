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

// Package main is the entry point for flowd, the HTTP server exposing
// the flow executor over the §6 execute/validate contract.
//
// Usage:
//
//	./flowd
//
// Environment variables:
//
//	PORT - HTTP server port (default: 8090)
//	FLOWD_JWT_SECRET - HMAC secret validating bearer tokens (optional;
//	  when unset, requests are accepted unauthenticated)
package main

func main() {
	Run()
}
