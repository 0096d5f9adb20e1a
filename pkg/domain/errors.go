package domain

import "errors"

// ErrMalformedDocument is returned when persisted XML cannot be decoded into a document.
var ErrMalformedDocument = errors.New("malformed document")

// ErrInvalidDocument is returned when a document violates the single-root invariant on save.
var ErrInvalidDocument = errors.New("invalid document")

// ErrNodeNotFound is returned when a node ID cannot be found in the tree.
var ErrNodeNotFound = errors.New("node not found")

// ErrInvalidParent is returned when an insert or reconnect targets an unusable parent.
var ErrInvalidParent = errors.New("invalid parent")

// ErrUnknownParameter is returned when a value is set for a label the node does not declare.
var ErrUnknownParameter = errors.New("unknown parameter")

// ErrDuplicateNode is returned when a node is adopted under an ID that is already taken.
var ErrDuplicateNode = errors.New("duplicate node id")

// ErrWorkspaceNotFound is returned when a workspace name cannot be found in the store.
var ErrWorkspaceNotFound = errors.New("workspace not found")
