package resolver

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/docref/docref/pkg/astutil"
)

// rustDeclarations implements the Rust extraction rules: top-level fn,
// const, struct, enum, static, type alias, trait by name; struct fields as
// Struct.field; enum variants as Enum.Variant; trait methods as
// Trait.method; impl methods as Type.method using the impl's type field
// verbatim (generic arguments included).
func rustDeclarations(root *sitter.Node, source []byte) []Declaration {
	var decls []Declaration

	for i := 0; i < int(root.ChildCount()); i++ {
		node := root.Child(i)
		switch node.Type() {
		case "function_item", "const_item", "struct_item", "enum_item", "static_item", "type_item":
			if nameNode := node.ChildByFieldName("name"); nameNode != nil {
				name := astutil.NodeText(nameNode, source)
				decls = append(decls, Declaration{Name: name, Qualified: name, Start: node.StartByte(), End: node.EndByte()})

				switch node.Type() {
				case "struct_item":
					decls = append(decls, rustStructFields(node, source, name)...)
				case "enum_item":
					decls = append(decls, rustEnumVariants(node, source, name)...)
				}
			}

		case "trait_item":
			if nameNode := node.ChildByFieldName("name"); nameNode != nil {
				name := astutil.NodeText(nameNode, source)
				decls = append(decls, Declaration{Name: name, Qualified: name, Start: node.StartByte(), End: node.EndByte()})
				decls = append(decls, rustTraitMethods(node, source, name)...)
			}

		case "impl_item":
			decls = append(decls, rustImplMethods(node, source)...)
		}
	}

	return decls
}

func rustStructFields(structNode *sitter.Node, source []byte, structName string) []Declaration {
	body := structNode.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var out []Declaration
	for _, field := range astutil.FindChildrenByType(body, "field_declaration") {
		nameNode := field.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		fieldName := astutil.NodeText(nameNode, source)
		out = append(out, Declaration{
			Name:      fieldName,
			Qualified: structName + "." + fieldName,
			Start:     field.StartByte(),
			End:       field.EndByte(),
		})
	}
	return out
}

func rustEnumVariants(enumNode *sitter.Node, source []byte, enumName string) []Declaration {
	body := enumNode.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var out []Declaration
	for _, variant := range astutil.FindChildrenByType(body, "enum_variant") {
		nameNode := variant.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		variantName := astutil.NodeText(nameNode, source)
		out = append(out, Declaration{
			Name:      variantName,
			Qualified: enumName + "." + variantName,
			Start:     variant.StartByte(),
			End:       variant.EndByte(),
		})
	}
	return out
}

func rustTraitMethods(traitNode *sitter.Node, source []byte, traitName string) []Declaration {
	body := traitNode.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var out []Declaration
	for i := 0; i < int(body.ChildCount()); i++ {
		method := body.Child(i)
		if method.Type() != "function_item" && method.Type() != "function_signature_item" {
			continue
		}
		nameNode := method.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		methodName := astutil.NodeText(nameNode, source)
		out = append(out, Declaration{
			Name:      methodName,
			Qualified: traitName + "." + methodName,
			Start:     method.StartByte(),
			End:       method.EndByte(),
		})
	}
	return out
}

func rustImplMethods(implNode *sitter.Node, source []byte) []Declaration {
	typeNode := implNode.ChildByFieldName("type")
	body := implNode.ChildByFieldName("body")
	if typeNode == nil || body == nil {
		return nil
	}
	typeName := astutil.NodeText(typeNode, source)

	var out []Declaration
	for _, fn := range astutil.FindChildrenByType(body, "function_item") {
		nameNode := fn.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		methodName := astutil.NodeText(nameNode, source)
		out = append(out, Declaration{
			Name:      methodName,
			Qualified: typeName + "." + methodName,
			Start:     fn.StartByte(),
			End:       fn.EndByte(),
		})
	}
	return out
}
