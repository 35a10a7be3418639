// Copyright 2025 AxonFlow
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package base defines the capability contract every flow connection
// backend implements. A flow definition's `connections:` block names a
// backend type and its options; the engine never inspects a Connection
// beyond this interface, keeping concrete backend types out of the
// executor core.
package base

import (
	"context"
	"time"
)

// Connection is the interface every backend (postgres, redis, s3, ...)
// implements. The executor passes a Connection to a task handler's
// `connection` parameter without knowing its concrete type.
type Connection interface {
	// Lifecycle
	Connect(ctx context.Context, config *ConnectionConfig) error
	Disconnect(ctx context.Context) error
	HealthCheck(ctx context.Context) (*HealthStatus, error)

	// Data operations (read)
	Query(ctx context.Context, query *Query) (*QueryResult, error)

	// Action operations (write)
	Execute(ctx context.Context, cmd *Command) (*CommandResult, error)

	// Metadata
	Name() string
	Type() string
	Version() string
	Capabilities() []string
}

// ConnectionConfig holds the configuration for one named connection, as
// declared under a flow definition's `connections:` block.
type ConnectionConfig struct {
	Name          string                 `json:"name" yaml:"name"`
	Type          string                 `json:"type" yaml:"type"`
	ConnectionURL string                 `json:"connection_url" yaml:"connectionURL"`
	Credentials   map[string]string      `json:"credentials" yaml:"credentials"`
	Options       map[string]interface{} `json:"options" yaml:"options"`
	Timeout       time.Duration          `json:"timeout" yaml:"timeout"`
	MaxRetries    int                    `json:"max_retries" yaml:"maxRetries"`
	TenantID      string                 `json:"tenant_id,omitempty" yaml:"tenantID,omitempty"`
}

// Query represents a read operation against a connection.
type Query struct {
	Statement  string                 `json:"statement"`
	Parameters map[string]interface{} `json:"parameters"`
	Timeout    time.Duration          `json:"timeout"`
	Limit      int                    `json:"limit"`
}

// QueryResult contains the results of a Query operation.
type QueryResult struct {
	Rows      []map[string]interface{} `json:"rows"`
	RowCount  int                      `json:"row_count"`
	Duration  time.Duration            `json:"duration"`
	Cached    bool                     `json:"cached"`
	Connection string                   `json:"connection"`
	Metadata  map[string]interface{}   `json:"metadata,omitempty"`
}

// Command represents a write operation against a connection.
type Command struct {
	Action     string                 `json:"action"`
	Statement  string                 `json:"statement"`
	Parameters map[string]interface{} `json:"parameters"`
	Timeout    time.Duration          `json:"timeout"`
}

// CommandResult contains the results of a Command execution.
type CommandResult struct {
	Success      bool                   `json:"success"`
	RowsAffected int                    `json:"rows_affected"`
	Duration     time.Duration          `json:"duration"`
	Message      string                 `json:"message"`
	Connection    string                 `json:"connection"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// HealthStatus represents the health of a connection.
type HealthStatus struct {
	Healthy   bool              `json:"healthy"`
	Latency   time.Duration     `json:"latency"`
	Details   map[string]string `json:"details"`
	Timestamp time.Time         `json:"timestamp"`
	Error     string            `json:"error"`
}

// ConnectionError represents an error raised by a connection backend.
type ConnectionError struct {
	ConnectionName string
	Operation      string
	Message        string
	Cause          error
}

func (e *ConnectionError) Error() string {
	if e.Cause != nil {
		return e.ConnectionName + "." + e.Operation + ": " + e.Message + " (cause: " + e.Cause.Error() + ")"
	}
	return e.ConnectionName + "." + e.Operation + ": " + e.Message
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// NewConnectionError creates a new ConnectionError.
func NewConnectionError(connectionName, operation, message string, cause error) *ConnectionError {
	return &ConnectionError{
		ConnectionName: connectionName,
		Operation:      operation,
		Message:        message,
		Cause:          cause,
	}
}
