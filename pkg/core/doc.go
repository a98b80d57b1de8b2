// Package core defines the shared language of the schemasync system.
//
// This package contains:
//   - Domain entities (EntityDescriptor, FieldDescriptor, SemanticType)
//   - Service interfaces (Adapter, Journal)
//   - Configuration types (TargetConfig, AdapterConfig)
//   - Generated statements and the error taxonomy
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
