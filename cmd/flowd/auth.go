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
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const ctxKeyMetadata ctxKey = "flowd_metadata"

// authMiddleware validates a bearer JWT against FLOWD_JWT_SECRET,
// grounded on the teacher's jwt.Parse + jwt.MapClaims pattern in
// agent/run.go. When no secret is configured the middleware is a
// no-op, matching a local/dev deployment with auth disabled.
func authMiddleware(next http.Handler) http.Handler {
	secret := getEnv("FLOWD_JWT_SECRET", "")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if secret == "" {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" || tokenString == authHeader {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		metadata := map[string]interface{}{}
		if ok {
			if clientID, ok := claims["client_id"].(string); ok {
				metadata["client_id"] = clientID
			}
			if tenantID, ok := claims["tenant_id"].(string); ok {
				metadata["tenant_id"] = tenantID
			}
		}

		ctx := context.WithValue(r.Context(), ctxKeyMetadata, metadata)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestMetadata extracts the metadata the auth middleware attached to
// the request context, or an empty map when auth is disabled.
func requestMetadata(r *http.Request) map[string]interface{} {
	if v, ok := r.Context().Value(ctxKeyMetadata).(map[string]interface{}); ok {
		return v
	}
	return map[string]interface{}{}
}
