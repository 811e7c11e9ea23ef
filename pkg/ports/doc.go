/*
Package ports defines the driven ports (interfaces) for the ltree engine.

These interfaces decouple the generation and drawing core from external
implementations, allowing the same tree to be drawn onto SVG documents,
raster images or remote canvases, and its signatures to be cached in
memory, Redis or SQLite.

# Key Interfaces

  - Surface: The immediate-mode 2D drawing context the turtle draws on.
  - NoiseSource: The randomness used for angle and leaf-tint jitter.
  - SignatureCache: Stores expanded signatures keyed by rule and iteration count.
*/
package ports
