/*
Package domain contains the core models of the ltree engine.

It defines the tree configuration, the generated signature and the events
emitted while generating and drawing. This package is kept pure and free of
I/O, following the same hexagonal split as the rest of the module: drawing
surfaces and caches are described in package ports and implemented under
pkg/adapters.

# Key Entities

  - Config: The production rule, branch angle and noise flag of a tree.
  - Signature: The expanded instruction string and the iteration count that produced it.
  - Stats: Structural figures of a signature (segments, leaves, depth, bracket balance).
  - LifecycleHooks: Callbacks invoked after generation and after each draw.
*/
package domain
