/*
Package domain contains the core document model for the Arbor engine.

It defines the fundamental entities of a behavior-tree document: Nodes,
their Categories and parameter declarations, and the Tree that owns them.
This package is kept pure and free of external dependencies like I/O or
persistence, following Hexagonal Architecture principles.

# Key Entities

  - Node: One element of the document graph (Root, Control, Decorator, Action or SubTree).
  - NodeModel: The declared shape of a node type (category + typed parameters).
  - Tree: The arena that owns all nodes and their parent/child edges.
  - TreeNodesModel: The per-document catalog of node models, rebuilt on every load.
*/
package domain
