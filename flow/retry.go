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

package flow

import (
	"context"
	"math"
	"time"
)

// backoffDelay computes the delay before attempt (1-based: attempt 2 is
// the first retry) per §4.6's exact formula: B × 2^(attempt-1), where B
// is the policy's configured Backoff in seconds.
func backoffDelay(policy *RetryPolicy, attempt int) time.Duration {
	seconds := policy.Backoff * math.Pow(2, float64(attempt-1))
	return time.Duration(seconds * float64(time.Second))
}

// runWithRetry invokes fn up to policy.MaxAttempts times, sleeping the
// backoff delay between attempts, and returns as soon as fn succeeds.
// Cancellation is checked before each attempt and during each backoff
// sleep; a cancellation observed mid-wait short-circuits immediately
// rather than completing the sleep.
func runWithRetry(ctx context.Context, fctx *FlowContext, policy *RetryPolicy, fn func() (map[string]interface{}, error)) (map[string]interface{}, error) {
	if policy == nil {
		policy = &RetryPolicy{MaxAttempts: 1, Backoff: 1.0}
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if fctx.Cancelled() {
			return nil, &Cancelled{}
		}

		out, err := fn()
		if err == nil {
			return out, nil
		}
		lastErr = err

		if attempt == policy.MaxAttempts {
			break
		}

		delay := backoffDelay(policy, attempt)
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, &Cancelled{}
		}
		if fctx.Cancelled() {
			return nil, &Cancelled{}
		}
	}
	return nil, lastErr
}
