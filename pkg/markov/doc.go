/*
Package markov provides a dense, fixed-order Markov frequency table over an
ordered alphabet of discrete symbols, and the tools to train it on example
sequences and to synthesize new sequences from it.

Every possible context window of the table's chain length is addressed by a
mixed-radix index over the alphabet plus a Boundary sentinel, which stands for
"no symbol" both before the first symbol of a sequence and after its last one.
Training reinforces (or rejects) the windows a sequence passes through, and
generation walks forward from an all-Boundary context, picking each next slot
with probability proportional to its observed count until the Boundary is
drawn.

A Table is not safe for concurrent use. Callers that share one across
goroutines must serialize access to it.
*/
package markov
