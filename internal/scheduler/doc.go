// Package scheduler computes the order in which the nodes of a graph may run.
//
// # Why Scheduler Exists
//
// The scheduler separates "what can run" from "how to run it". It knows
// nothing about computations, concurrency or failures; it only reasons about
// dependency edges. The executor consumes its output.
//
// # How It Works
//
// Frontiers applies Kahn's algorithm:
//  1. Count the unsatisfied dependencies of every node.
//  2. Frontier 0 is every node whose count is zero.
//  3. Completing a frontier decrements the counts of its dependents; nodes
//     reaching zero form the next frontier.
//  4. Repeat until no node is left.
//
// Members of each frontier are sorted by identity, so a plan is fully
// deterministic for a given graph.
//
// Tracker exposes the same counting incrementally, one completed node at a
// time. The executor uses it to launch a node as soon as its own dependencies
// are terminal, rather than waiting for the whole previous frontier.
package scheduler
