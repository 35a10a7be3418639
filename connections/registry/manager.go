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

package registry

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/hello-adam-martin/flowlang/connections/base"
)

// ConnectionFactory creates a connection instance for a given backend type.
type ConnectionFactory func(connectionType string) (base.Connection, error)

// ConnectionManager holds every connection a flow run can reach, keyed by
// the name used in a flow definition's `connections:` block and in a step's
// `connection` field. It is in-memory only: a manager is built fresh for
// each flowd/flowctl process from its configuration and torn down at
// shutdown, there is no cross-restart persistence.
//
// Thread-safe for concurrent access: steps running in a `parallel` group
// may call Get concurrently.
type ConnectionManager struct {
	connections map[string]base.Connection
	configs     map[string]*base.ConnectionConfig
	factory     ConnectionFactory
	mu          sync.RWMutex
	logger      *log.Logger
}

// NewConnectionManager creates an empty, in-memory connection manager.
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]base.Connection),
		configs:     make(map[string]*base.ConnectionConfig),
		logger:      log.New(os.Stdout, "[CONNECTIONS] ", log.LstdFlags),
	}
}

// SetFactory installs the factory used to lazily instantiate a connection
// from its config the first time a flow references it by name.
func (m *ConnectionManager) SetFactory(factory ConnectionFactory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factory = factory
	m.logger.Println("connection factory configured for lazy instantiation")
}

// Register connects and adds a connection under name. It fails if name is
// already registered.
func (m *ConnectionManager) Register(name string, conn base.Connection, config *base.ConnectionConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.connections[name]; exists {
		return fmt.Errorf("connection '%s' already registered", name)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	if err := conn.Connect(ctx, config); err != nil {
		m.logger.Printf("failed to connect '%s': %v", name, err)
		return fmt.Errorf("failed to connect '%s': %w", name, err)
	}

	m.connections[name] = conn
	m.configs[name] = config
	m.logger.Printf("registered connection '%s' (type: %s)", name, config.Type)
	return nil
}

// RegisterConfig stores a connection's configuration without connecting it.
// The connection is instantiated lazily on first Get, via the configured
// factory.
func (m *ConnectionManager) RegisterConfig(name string, config *base.ConnectionConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[name] = config
}

// Unregister disconnects and removes a connection.
func (m *ConnectionManager) Unregister(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	conn, exists := m.connections[name]
	if !exists {
		return fmt.Errorf("connection '%s' not found", name)
	}

	if err := conn.Disconnect(ctx); err != nil {
		m.logger.Printf("error disconnecting '%s': %v", name, err)
	}

	delete(m.connections, name)
	delete(m.configs, name)
	m.logger.Printf("unregistered connection '%s'", name)
	return nil
}

// Get returns a connection by name, lazily instantiating it from its
// registered config if it has not been connected yet.
func (m *ConnectionManager) Get(name string) (base.Connection, error) {
	m.mu.RLock()
	conn, exists := m.connections[name]
	config, hasConfig := m.configs[name]
	m.mu.RUnlock()

	if exists {
		return conn, nil
	}

	if hasConfig && m.factory != nil {
		return m.lazyLoad(name, config)
	}

	return nil, fmt.Errorf("connection '%s' not found", name)
}

func (m *ConnectionManager) lazyLoad(name string, config *base.ConnectionConfig) (base.Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if conn, exists := m.connections[name]; exists {
		return conn, nil
	}

	m.logger.Printf("lazily instantiating connection '%s' (type: %s)", name, config.Type)

	conn, err := m.factory(config.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection '%s': %w", name, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	if err := conn.Connect(ctx, config); err != nil {
		m.logger.Printf("failed to connect lazily-instantiated connection '%s': %v", name, err)
		return nil, fmt.Errorf("failed to connect '%s': %w", name, err)
	}

	m.connections[name] = conn
	return conn, nil
}

// GetConfig returns a connection's configuration by name.
func (m *ConnectionManager) GetConfig(name string) (*base.ConnectionConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	config, exists := m.configs[name]
	if !exists {
		return nil, fmt.Errorf("config for connection '%s' not found", name)
	}
	return config, nil
}

// List returns the names of all connected connections.
func (m *ConnectionManager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.connections))
	for name := range m.connections {
		names = append(names, name)
	}
	return names
}

// ListWithTypes returns every connected connection's name mapped to its
// backend type.
func (m *ConnectionManager) ListWithTypes() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]string)
	for name, conn := range m.connections {
		result[name] = conn.Type()
	}
	return result
}

// HealthCheck runs a health check against every connected connection.
func (m *ConnectionManager) HealthCheck(ctx context.Context) map[string]*base.HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make(map[string]*base.HealthStatus)
	for name, conn := range m.connections {
		status, err := conn.HealthCheck(ctx)
		if err != nil {
			m.logger.Printf("health check failed for '%s': %v", name, err)
			status = &base.HealthStatus{Healthy: false, Error: err.Error()}
		}
		results[name] = status
	}
	return results
}

// HealthCheckSingle runs a health check against one connection.
func (m *ConnectionManager) HealthCheckSingle(ctx context.Context, name string) (*base.HealthStatus, error) {
	conn, err := m.Get(name)
	if err != nil {
		return nil, err
	}

	status, err := conn.HealthCheck(ctx)
	if err != nil {
		m.logger.Printf("health check failed for '%s': %v", name, err)
		return &base.HealthStatus{Healthy: false, Error: err.Error()}, nil
	}
	return status, nil
}

// Count returns the number of connected connections.
func (m *ConnectionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

// DisconnectAll disconnects every connected connection. Call during
// shutdown.
func (m *ConnectionManager) DisconnectAll(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Println("disconnecting all connections...")
	for name, conn := range m.connections {
		if err := conn.Disconnect(ctx); err != nil {
			m.logger.Printf("error disconnecting '%s': %v", name, err)
		} else {
			m.logger.Printf("disconnected '%s'", name)
		}
	}
	m.logger.Println("all connections disconnected")
}

// ByTenant returns the names of connections accessible to tenantID (a
// connection configured with TenantID "*" is accessible to every tenant).
func (m *ConnectionManager) ByTenant(tenantID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0)
	for name, config := range m.configs {
		if config.TenantID == tenantID || config.TenantID == "*" {
			names = append(names, name)
		}
	}
	return names
}

// ValidateTenantAccess returns an error if tenantID may not use the named
// connection.
func (m *ConnectionManager) ValidateTenantAccess(name, tenantID string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	config, exists := m.configs[name]
	if !exists {
		return fmt.Errorf("connection '%s' not found", name)
	}
	if config.TenantID != tenantID && config.TenantID != "*" {
		return fmt.Errorf("tenant '%s' does not have access to connection '%s'", tenantID, name)
	}
	return nil
}
