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
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware_NoSecretPassesThrough(t *testing.T) {
	os.Unsetenv("FLOWD_JWT_SECRET")

	var metadata map[string]interface{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metadata = requestMetadata(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/flows/execute", nil)
	rw := httptest.NewRecorder()

	authMiddleware(next).ServeHTTP(rw, req)

	assert.Equal(t, http.StatusOK, rw.Code)
	assert.Empty(t, metadata)
}

func TestAuthMiddleware_RejectsMissingToken(t *testing.T) {
	t.Setenv("FLOWD_JWT_SECRET", "test-secret")

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/flows/execute", nil)
	rw := httptest.NewRecorder()

	authMiddleware(next).ServeHTTP(rw, req)

	assert.Equal(t, http.StatusUnauthorized, rw.Code)
	assert.False(t, called)
}

func TestAuthMiddleware_AcceptsValidTokenAndExtractsClaims(t *testing.T) {
	t.Setenv("FLOWD_JWT_SECRET", "test-secret")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"client_id": "client-123",
		"tenant_id": "tenant-456",
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	var metadata map[string]interface{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metadata = requestMetadata(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/flows/execute", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rw := httptest.NewRecorder()

	authMiddleware(next).ServeHTTP(rw, req)

	assert.Equal(t, http.StatusOK, rw.Code)
	assert.Equal(t, "client-123", metadata["client_id"])
	assert.Equal(t, "tenant-456", metadata["tenant_id"])
}
