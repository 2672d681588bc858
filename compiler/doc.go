/*

Process of checking

Program Text ->
	parse ->
Abstract Syntax Tree (ast) ->
	topological sort ->
Dependency Order ->
	type check ->
Checked Translation Unit

Expressions appear inside types, so the checker leans on the ast package's
equality, deep copy, free variable and substitution operations the whole way
down.

*/
package compiler
