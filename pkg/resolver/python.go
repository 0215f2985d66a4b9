package resolver

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/docref/docref/pkg/astutil"
)

// pyDeclarations implements the Python extraction rules.
func pyDeclarations(root *sitter.Node, source []byte) []Declaration {
	var decls []Declaration

	for i := 0; i < int(root.ChildCount()); i++ {
		node := root.Child(i)
		outer, inner := unwrapDecorated(node)

		switch inner.Type() {
		case "function_definition":
			if d, ok := pyNamed(inner, outer, source); ok {
				decls = append(decls, d)
			}
		case "class_definition":
			if d, ok := pyNamed(inner, outer, source); ok {
				decls = append(decls, d)
				decls = append(decls, pyClassMembers(inner, source, d.Name)...)
			}
		case "expression_statement":
			decls = append(decls, pyModuleAssignments(inner, source)...)
		}
	}

	return decls
}

// unwrapDecorated returns (outerNode, innerNode): for a decorated_definition
// the inner class/function node used for name/body lookup, but the outer
// node whose byte range includes the decorators.
func unwrapDecorated(node *sitter.Node) (outer, inner *sitter.Node) {
	if node.Type() != "decorated_definition" {
		return node, node
	}
	if def := node.ChildByFieldName("definition"); def != nil {
		return node, def
	}
	return node, node
}

func pyNamed(inner, outer *sitter.Node, source []byte) (Declaration, bool) {
	nameNode := inner.ChildByFieldName("name")
	if nameNode == nil {
		return Declaration{}, false
	}
	name := astutil.NodeText(nameNode, source)
	return Declaration{Name: name, Qualified: name, Start: outer.StartByte(), End: outer.EndByte()}, true
}

func pyModuleAssignments(stmt *sitter.Node, source []byte) []Declaration {
	assign := astutil.FindChildByType(stmt, "assignment")
	if assign == nil {
		return nil
	}
	left := assign.ChildByFieldName("left")
	if left == nil || left.Type() != "identifier" {
		return nil
	}
	name := astutil.NodeText(left, source)
	if strings.HasPrefix(name, "_") {
		return nil
	}
	return []Declaration{{Name: name, Qualified: name, Start: stmt.StartByte(), End: stmt.EndByte()}}
}

func pyClassMembers(classNode *sitter.Node, source []byte, className string) []Declaration {
	body := classNode.ChildByFieldName("body")
	if body == nil {
		return nil
	}

	var out []Declaration
	for i := 0; i < int(body.ChildCount()); i++ {
		outer, inner := unwrapDecorated(body.Child(i))
		if inner.Type() != "function_definition" {
			continue
		}
		nameNode := inner.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		methodName := astutil.NodeText(nameNode, source)
		if strings.HasPrefix(methodName, "__") && strings.HasSuffix(methodName, "__") && methodName != "__init__" {
			continue
		}
		out = append(out, Declaration{
			Name:      methodName,
			Qualified: className + "." + methodName,
			Start:     outer.StartByte(),
			End:       outer.EndByte(),
		})

		if methodName == "__init__" {
			out = append(out, pyInitAttrs(inner, source, className)...)
		}
	}
	return out
}

var pyDescendInto = map[string]bool{
	"if_statement": true, "for_statement": true, "while_statement": true,
	"try_statement": true, "with_statement": true, "block": true,
	"else_clause": true, "elif_clause": true, "except_clause": true, "finally_clause": true,
}

// pyInitAttrs walks __init__'s body recursively, emitting Class.attr for
// every "self.attr = ..." assignment, deduplicated by qualified name
// keeping the first occurrence (an Open Question decision: earlier
// branches win over later conditional reassignments).
func pyInitAttrs(initNode *sitter.Node, source []byte, className string) []Declaration {
	body := initNode.ChildByFieldName("body")
	if body == nil {
		return nil
	}

	var out []Declaration
	seen := map[string]bool{}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "expression_statement" {
			if assign := astutil.FindChildByType(n, "assignment"); assign != nil {
				if attr, ok := pySelfAttr(assign, source); ok {
					qualified := className + "." + attr
					if !seen[qualified] {
						seen[qualified] = true
						out = append(out, Declaration{Name: attr, Qualified: qualified, Start: n.StartByte(), End: n.EndByte()})
					}
				}
			}
		}
		if pyDescendInto[n.Type()] || n == body {
			for i := 0; i < int(n.ChildCount()); i++ {
				walk(n.Child(i))
			}
		}
	}
	walk(body)

	return out
}

func pySelfAttr(assign *sitter.Node, source []byte) (string, bool) {
	left := assign.ChildByFieldName("left")
	if left == nil || left.Type() != "attribute" {
		return "", false
	}
	obj := left.ChildByFieldName("object")
	attr := left.ChildByFieldName("attribute")
	if obj == nil || attr == nil || astutil.NodeText(obj, source) != "self" {
		return "", false
	}
	return astutil.NodeText(attr, source), true
}
