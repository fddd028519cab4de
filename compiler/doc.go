/*

Process of compilation

Program Text ->
	parse ->
Abstract Syntax Tree (ast) ->
	front ->
Native Module (back) ->
	link ->
Machine Code ->
	run ->
Result

Everything happens in memory in a single process.
The expression is executed right after it's compiled.

*/
package compiler
