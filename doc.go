/*
Package arbor is a behavior-tree document engine: it edits, persists and
replays hierarchical behavior-tree definitions for a visual editor.

The engine owns the abstract tree representation, its validity rules, the
XML codec, the undo/redo snapshot mechanism and the deterministic
re-layout algorithm. It renders nothing and executes nothing: the
graphical canvas, file dialogs and live monitoring feeds are external
collaborators that plug in through the interfaces in pkg/ports, following
Hexagonal Architecture principles.

# Key Guarantees

  - Structural invariants (exactly one root, acyclic parent/child edges,
    stable node identity) hold across repeated mutate/serialize/
    deserialize/undo cycles.
  - Decoding is all-or-nothing: a malformed document never corrupts the
    live editor state; the previous snapshot is restored instead.
  - Encoding never writes a partial file: the single-root invariant is
    re-asserted before any output is produced.
  - Layout is a pure function of (tree structure, orientation).

# Usage

	package main

	import (
		"fmt"
		"log"

		"github.com/aretw0/arbor"
	)

	func main() {
		editor, err := arbor.New()
		if err != nil {
			log.Fatal(err)
		}

		if err := editor.LoadFile("patrol.xml"); err != nil {
			log.Fatal(err)
		}

		sess := editor.Session()
		fmt.Println("valid:", sess.IsValid())

		sess.AutoArrange()
		if err := editor.SaveFile("patrol.xml"); err != nil {
			log.Fatal(err)
		}
	}
*/
package arbor
