package resolver

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/docref/docref/pkg/astutil"
)

// tsDeclarations implements the TypeScript/TSX extraction rules.
func tsDeclarations(root *sitter.Node, source []byte) []Declaration {
	var decls []Declaration

	for i := 0; i < int(root.ChildCount()); i++ {
		decls = append(decls, tsTopLevel(unwrapExport(root.Child(i)), source)...)
	}

	return decls
}

func unwrapExport(node *sitter.Node) *sitter.Node {
	if node.Type() != "export_statement" {
		return node
	}
	if inner := node.ChildByFieldName("declaration"); inner != nil {
		return inner
	}
	return node
}

func tsTopLevel(node *sitter.Node, source []byte) []Declaration {
	switch node.Type() {
	case "function_declaration", "class_declaration", "interface_declaration",
		"type_alias_declaration", "enum_declaration":
		nameNode := node.ChildByFieldName("name")
		if nameNode == nil {
			return nil
		}
		name := astutil.NodeText(nameNode, source)
		decls := []Declaration{{Name: name, Qualified: name, Start: node.StartByte(), End: node.EndByte()}}

		switch node.Type() {
		case "class_declaration":
			decls = append(decls, tsClassMembers(node, source, name)...)
		case "interface_declaration":
			decls = append(decls, tsInterfaceMembers(node, source, name)...)
		case "enum_declaration":
			decls = append(decls, tsEnumMembers(node, source, name)...)
		}
		return decls

	case "lexical_declaration", "variable_declaration":
		return tsVariableDeclarators(node, source)
	}
	return nil
}

// tsVariableDeclarators emits one Declaration per declarator, all sharing
// the enclosing statement's byte range so the hash covers the initializer.
func tsVariableDeclarators(stmt *sitter.Node, source []byte) []Declaration {
	var out []Declaration
	for _, decl := range astutil.FindChildrenByType(stmt, "variable_declarator") {
		nameNode := decl.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := astutil.NodeText(nameNode, source)
		out = append(out, Declaration{Name: name, Qualified: name, Start: stmt.StartByte(), End: stmt.EndByte()})
	}
	return out
}

func tsClassMembers(classNode *sitter.Node, source []byte, className string) []Declaration {
	body := classNode.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var out []Declaration
	for i := 0; i < int(body.ChildCount()); i++ {
		member := body.Child(i)
		if member.Type() != "method_definition" && member.Type() != "public_field_definition" {
			continue
		}
		nameNode := member.ChildByFieldName("name")
		if nameNode == nil || nameNode.Type() != "property_identifier" {
			continue
		}
		memberName := astutil.NodeText(nameNode, source)
		out = append(out, Declaration{
			Name:      memberName,
			Qualified: className + "." + memberName,
			Start:     member.StartByte(),
			End:       member.EndByte(),
		})
	}
	return out
}

func tsInterfaceMembers(ifaceNode *sitter.Node, source []byte, ifaceName string) []Declaration {
	body := ifaceNode.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var out []Declaration
	for _, prop := range astutil.FindChildrenByType(body, "property_signature") {
		nameNode := prop.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		propName := astutil.NodeText(nameNode, source)
		out = append(out, Declaration{
			Name:      propName,
			Qualified: ifaceName + "." + propName,
			Start:     prop.StartByte(),
			End:       prop.EndByte(),
		})
	}
	return out
}

func tsEnumMembers(enumNode *sitter.Node, source []byte, enumName string) []Declaration {
	body := enumNode.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var out []Declaration
	for i := 0; i < int(body.ChildCount()); i++ {
		member := body.Child(i)
		var nameNode *sitter.Node
		switch member.Type() {
		case "enum_assignment":
			nameNode = member.ChildByFieldName("name")
			if nameNode == nil && member.ChildCount() > 0 {
				nameNode = member.Child(0)
			}
		case "property_identifier":
			nameNode = member
		default:
			continue
		}
		if nameNode == nil {
			continue
		}
		memberName := astutil.NodeText(nameNode, source)
		out = append(out, Declaration{
			Name:      memberName,
			Qualified: enumName + "." + memberName,
			Start:     member.StartByte(),
			End:       member.EndByte(),
		})
	}
	return out
}
