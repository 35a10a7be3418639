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

/*
Package registry provides a thread-safe in-memory manager for the named
connections a flow run can use.

# Overview

The ConnectionManager is the central point for connection lifecycle
within one flowd/flowctl process. It handles:

  - Connection registration and lifecycle management
  - Lazy instantiation of connections via a factory, keyed by backend type
  - Multi-tenant isolation and access control
  - Health checking across all connections

There is no cross-process persistence: a manager is built fresh from
configuration at startup and torn down at shutdown.

# Creating a Manager

	manager := registry.NewConnectionManager()

# Registering Connections

Register a connection with its configuration:

	config := &base.ConnectionConfig{
	    Name:          "sales-postgres",
	    Type:          "postgres",
	    ConnectionURL: "postgres://...",
	    TenantID:      "tenant-123",
	    Timeout:       5 * time.Second,
	}

	err := manager.Register("sales-postgres", postgresConn, config)

# Using Connections

Retrieve and use a registered connection:

	conn, err := manager.Get("sales-postgres")
	if err != nil {
	    return err
	}

	result, err := conn.Query(ctx, &base.Query{
	    Statement: "SELECT * FROM customers",
	})

# Multi-Tenant Access Control

The manager enforces tenant isolation:

	// Check if tenant can access a connection
	err := manager.ValidateTenantAccess("sales-postgres", "tenant-123")
	if err != nil {
	    return err // Access denied
	}

	// List all connections for a tenant
	names := manager.ByTenant("tenant-123")

# Lazy Instantiation

Register a config without connecting, then set a factory so the
connection is created and connected on first use:

	manager.RegisterConfig("delayed-connection", config)
	manager.SetFactory(func(connectionType string) (base.Connection, error) {
	    switch connectionType {
	    case "postgres":
	        return postgres.New(), nil
	    case "cassandra":
	        return cassandra.New(), nil
	    default:
	        return nil, fmt.Errorf("unknown connection type: %s", connectionType)
	    }
	})

	conn, err := manager.Get("delayed-connection")

# Health Checking

Check health of all registered connections:

	health := manager.HealthCheck(ctx)
	for name, status := range health {
	    if !status.Healthy {
	        log.Printf("connection %s unhealthy: %s", name, status.Error)
	    }
	}

# Graceful Shutdown

Disconnect all connections on shutdown:

	manager.DisconnectAll(ctx)

# Thread Safety

The ConnectionManager is safe for concurrent use. All methods use
sync.RWMutex for proper synchronization, since steps within a `parallel`
group may register or fetch connections simultaneously.
*/
package registry
