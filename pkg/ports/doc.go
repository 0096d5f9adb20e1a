/*
Package ports defines the boundary interfaces between the Arbor document
engine and its external collaborators.

The engine itself never renders, prompts or persists; the canvas shell,
the file/dialog shell and the workspace stores plug in through these
interfaces, following Hexagonal Architecture principles.
*/
package ports
