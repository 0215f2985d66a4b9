package resolver

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/docref/docref/pkg/astutil"
)

// goDeclarations implements the Go extraction rules: top-level const_spec,
// var_spec, functions, methods (receiver type as qualifier, unwrapping
// pointer_type), and type specs (plus their struct fields / interface
// methods).
func goDeclarations(root *sitter.Node, source []byte) []Declaration {
	var decls []Declaration

	for i := 0; i < int(root.ChildCount()); i++ {
		node := root.Child(i)
		switch node.Type() {
		case "const_declaration", "var_declaration":
			decls = append(decls, goSpecDeclarations(node, source)...)
		case "function_declaration":
			if d, ok := goNamedDeclaration(node, source); ok {
				decls = append(decls, d)
			}
		case "method_declaration":
			if d, ok := goMethodDeclaration(node, source); ok {
				decls = append(decls, d)
			}
		case "type_declaration":
			decls = append(decls, goTypeSpecs(node, source)...)
		}
	}

	return decls
}

func goNamedDeclaration(node *sitter.Node, source []byte) (Declaration, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return Declaration{}, false
	}
	name := astutil.NodeText(nameNode, source)
	return Declaration{Name: name, Qualified: name, Start: node.StartByte(), End: node.EndByte()}, true
}

// goSpecDeclarations walks a const_declaration/var_declaration's spec
// children, emitting one Declaration per identifier, spanning only that
// spec (spec.md's open question: block context is not included).
func goSpecDeclarations(declNode *sitter.Node, source []byte) []Declaration {
	var out []Declaration
	for i := 0; i < int(declNode.ChildCount()); i++ {
		spec := declNode.Child(i)
		if spec.Type() != "const_spec" && spec.Type() != "var_spec" {
			continue
		}
		for j := 0; j < int(spec.ChildCount()); j++ {
			child := spec.Child(j)
			if child.Type() != "identifier" {
				continue
			}
			name := astutil.NodeText(child, source)
			out = append(out, Declaration{Name: name, Qualified: name, Start: spec.StartByte(), End: spec.EndByte()})
		}
	}
	return out
}

func goMethodDeclaration(node *sitter.Node, source []byte) (Declaration, bool) {
	nameNode := node.ChildByFieldName("name")
	receiver := node.ChildByFieldName("receiver")
	if nameNode == nil || receiver == nil {
		return Declaration{}, false
	}

	var recvType *sitter.Node
	for i := 0; i < int(receiver.ChildCount()); i++ {
		param := receiver.Child(i)
		if param.Type() != "parameter_declaration" {
			continue
		}
		recvType = param.ChildByFieldName("type")
	}
	if recvType == nil {
		return Declaration{}, false
	}
	if recvType.Type() == "pointer_type" {
		if inner := astutil.FindChildByType(recvType, "type_identifier"); inner != nil {
			recvType = inner
		}
	}

	typeName := astutil.NodeText(recvType, source)
	methodName := astutil.NodeText(nameNode, source)
	return Declaration{
		Name:      methodName,
		Qualified: typeName + "." + methodName,
		Start:     node.StartByte(),
		End:       node.EndByte(),
	}, true
}

func goTypeSpecs(declNode *sitter.Node, source []byte) []Declaration {
	var out []Declaration
	for i := 0; i < int(declNode.ChildCount()); i++ {
		spec := declNode.Child(i)
		if spec.Type() != "type_spec" {
			continue
		}
		nameNode := spec.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		typeName := astutil.NodeText(nameNode, source)
		out = append(out, Declaration{Name: typeName, Qualified: typeName, Start: spec.StartByte(), End: spec.EndByte()})

		underlying := spec.ChildByFieldName("type")
		if underlying == nil {
			continue
		}
		switch underlying.Type() {
		case "struct_type":
			out = append(out, goStructFields(underlying, source, typeName)...)
		case "interface_type":
			out = append(out, goInterfaceMethods(underlying, source, typeName)...)
		}
	}
	return out
}

func goStructFields(structType *sitter.Node, source []byte, typeName string) []Declaration {
	fieldList := astutil.FindChildByType(structType, "field_declaration_list")
	if fieldList == nil {
		return nil
	}
	var out []Declaration
	for _, field := range astutil.FindChildrenByType(fieldList, "field_declaration") {
		for j := 0; j < int(field.ChildCount()); j++ {
			child := field.Child(j)
			if child.Type() != "field_identifier" {
				continue
			}
			fieldName := astutil.NodeText(child, source)
			out = append(out, Declaration{
				Name:      fieldName,
				Qualified: typeName + "." + fieldName,
				Start:     field.StartByte(),
				End:       field.EndByte(),
			})
		}
	}
	return out
}

func goInterfaceMethods(ifaceType *sitter.Node, source []byte, typeName string) []Declaration {
	var out []Declaration
	for _, elem := range astutil.FindChildrenByType(ifaceType, "method_elem") {
		nameNode := elem.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		methodName := astutil.NodeText(nameNode, source)
		out = append(out, Declaration{
			Name:      methodName,
			Qualified: typeName + "." + methodName,
			Start:     elem.StartByte(),
			End:       elem.EndByte(),
		})
	}
	return out
}
