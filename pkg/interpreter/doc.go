// Package interpreter executes Rumina programs given as a decoded AST. The same
// evaluator core backs two strategies: a tree walker and a bytecode VM fed by
// lowerModuleToBytecode. Both must agree on values and error kinds.
package interpreter
