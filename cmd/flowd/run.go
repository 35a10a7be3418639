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
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/hello-adam-martin/flowlang/flow"
	"github.com/hello-adam-martin/flowlang/shared/logger"
)

// Run starts flowd: builds the task registry, wires the router, and
// blocks serving HTTP, in the style of orchestrator.Run().
func Run() {
	log.Println("Starting flowd...")

	registry := buildRegistry()
	svc := &service{
		registry: registry,
		executor: flow.NewExecutor(registry),
		store:    flow.NewMemoryExecutionStore(),
		log:      logger.New("flowd"),
	}

	r := mux.NewRouter()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	r.HandleFunc("/healthz", svc.healthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := r.PathPrefix("/v1").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("/flows/execute", svc.executeHandler).Methods("POST")
	api.HandleFunc("/flows/validate", svc.validateHandler).Methods("POST")
	api.HandleFunc("/flows/executions/{id}", svc.getExecutionHandler).Methods("GET")

	port := getEnv("PORT", "8090")
	handler := c.Handler(r)
	log.Printf("flowd listening on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
