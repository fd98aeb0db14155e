package ast

import "fmt"

func decodeModuleNodes(node map[string]any, typ string) (Node, bool, error) {
	switch typ {
	case "Module":
		stmts, err := decodeStatements(node["body"])
		if err != nil {
			return nil, true, err
		}
		return NewModule(stmts), true, nil
	case "IncludeStatement":
		path, _ := node["path"].(string)
		return NewIncludeStatement(path), true, nil
	default:
		return nil, false, nil
	}
}

func decodeLiteralNodes(node map[string]any, typ string) (Node, bool, error) {
	switch typ {
	case "Identifier":
		name, _ := node["name"].(string)
		return NewIdentifier(name), true, nil
	case "IntegerLiteral":
		value, err := parseBigInt(node["value"])
		if err != nil {
			return nil, true, err
		}
		return NewIntegerLiteral(value), true, nil
	case "DecimalLiteral":
		text, err := decimalText(node)
		if err != nil {
			return nil, true, err
		}
		return NewDecimalLiteral(text), true, nil
	case "StringLiteral":
		value, _ := node["value"].(string)
		return NewStringLiteral(value), true, nil
	case "BooleanLiteral":
		value, _ := node["value"].(bool)
		return NewBooleanLiteral(value), true, nil
	case "NullLiteral":
		return NewNullLiteral(), true, nil
	case "ArrayLiteral":
		elements, err := decodeExpressions(node["elements"])
		if err != nil {
			return nil, true, err
		}
		return NewArrayLiteral(elements), true, nil
	case "StructLiteral":
		list, _ := node["fields"].([]any)
		fields := make([]*StructFieldInitializer, 0, len(list))
		for _, entry := range list {
			child, err := decodeChild(entry)
			if err != nil {
				return nil, true, err
			}
			field, ok := child.(*StructFieldInitializer)
			if !ok {
				return nil, true, fmt.Errorf("invalid struct field entry")
			}
			fields = append(fields, field)
		}
		return NewStructLiteral(fields), true, nil
	case "StructFieldInitializer":
		name, err := decodeIdentifier(node["name"])
		if err != nil {
			return nil, true, err
		}
		value, err := decodeRequiredExpression(node, "value")
		if err != nil {
			return nil, true, err
		}
		return NewStructFieldInitializer(name, value), true, nil
	default:
		return nil, false, nil
	}
}

func decodeExpressionNodes(node map[string]any, typ string) (Node, bool, error) {
	switch typ {
	case "UnaryExpression":
		operator, _ := node["operator"].(string)
		operand, err := decodeRequiredExpression(node, "operand")
		if err != nil {
			return nil, true, err
		}
		return NewUnaryExpression(operator, operand), true, nil
	case "FactorialExpression":
		operand, err := decodeRequiredExpression(node, "operand")
		if err != nil {
			return nil, true, err
		}
		return NewFactorialExpression(operand), true, nil
	case "BinaryExpression":
		operator, _ := node["operator"].(string)
		left, err := decodeRequiredExpression(node, "left")
		if err != nil {
			return nil, true, err
		}
		right, err := decodeRequiredExpression(node, "right")
		if err != nil {
			return nil, true, err
		}
		return NewBinaryExpression(operator, left, right), true, nil
	case "FunctionCall":
		callee, err := decodeRequiredExpression(node, "callee")
		if err != nil {
			return nil, true, err
		}
		args, err := decodeExpressions(node["arguments"])
		if err != nil {
			return nil, true, err
		}
		return NewFunctionCall(callee, args), true, nil
	case "MemberAccessExpression":
		object, err := decodeRequiredExpression(node, "object")
		if err != nil {
			return nil, true, err
		}
		member, err := decodeIdentifier(node["member"])
		if err != nil {
			return nil, true, err
		}
		return NewMemberAccessExpression(object, member), true, nil
	case "IndexExpression":
		object, err := decodeRequiredExpression(node, "object")
		if err != nil {
			return nil, true, err
		}
		index, err := decodeRequiredExpression(node, "index")
		if err != nil {
			return nil, true, err
		}
		return NewIndexExpression(object, index), true, nil
	case "LambdaExpression":
		params, err := decodeIdentifiers(node["params"])
		if err != nil {
			return nil, true, err
		}
		body, err := decodeBlock(node["body"])
		if err != nil {
			return nil, true, err
		}
		return NewLambdaExpression(params, body), true, nil
	case "AssignmentExpression":
		targetExpr, err := decodeRequiredExpression(node, "target")
		if err != nil {
			return nil, true, err
		}
		target, ok := targetExpr.(AssignmentTarget)
		if !ok {
			return nil, true, fmt.Errorf("invalid assignment target %s", targetExpr.NodeType())
		}
		value, err := decodeRequiredExpression(node, "value")
		if err != nil {
			return nil, true, err
		}
		return NewAssignmentExpression(target, value), true, nil
	default:
		return nil, false, nil
	}
}

func decodeStatementNodes(node map[string]any, typ string) (Node, bool, error) {
	switch typ {
	case "VariableDeclaration":
		mutable, _ := node["mutable"].(bool)
		if kind, ok := node["kind"].(string); ok {
			mutable = kind == "var"
		}
		name, err := decodeIdentifier(node["name"])
		if err != nil {
			return nil, true, err
		}
		value, err := decodeExpression(node["value"])
		if err != nil {
			return nil, true, err
		}
		return NewVariableDeclaration(mutable, name, value), true, nil
	case "FunctionDefinition":
		id, err := decodeIdentifier(node["id"])
		if err != nil {
			return nil, true, err
		}
		params, err := decodeIdentifiers(node["params"])
		if err != nil {
			return nil, true, err
		}
		body, err := decodeBlock(node["body"])
		if err != nil {
			return nil, true, err
		}
		var decorators []string
		list, _ := node["decorators"].([]any)
		for _, entry := range list {
			if name, ok := entry.(string); ok {
				decorators = append(decorators, name)
			}
		}
		return NewFunctionDefinition(id, params, body, decorators), true, nil
	case "ReturnStatement":
		arg, err := decodeExpression(node["argument"])
		if err != nil {
			return nil, true, err
		}
		return NewReturnStatement(arg), true, nil
	case "IfStatement":
		cond, err := decodeRequiredExpression(node, "condition")
		if err != nil {
			return nil, true, err
		}
		consequent, err := decodeBlock(node["consequent"])
		if err != nil {
			return nil, true, err
		}
		var alternate Statement
		if raw, ok := node["alternate"].([]any); ok {
			block, err := decodeBlock(raw)
			if err != nil {
				return nil, true, err
			}
			alternate = block
		} else if alternate, err = decodeStatement(node["alternate"]); err != nil {
			return nil, true, err
		}
		return NewIfStatement(cond, consequent, alternate), true, nil
	case "WhileLoop":
		cond, err := decodeRequiredExpression(node, "condition")
		if err != nil {
			return nil, true, err
		}
		body, err := decodeBlock(node["body"])
		if err != nil {
			return nil, true, err
		}
		return NewWhileLoop(cond, body), true, nil
	case "ForLoop":
		init, err := decodeStatement(node["init"])
		if err != nil {
			return nil, true, err
		}
		cond, err := decodeExpression(node["condition"])
		if err != nil {
			return nil, true, err
		}
		update, err := decodeExpression(node["update"])
		if err != nil {
			return nil, true, err
		}
		body, err := decodeBlock(node["body"])
		if err != nil {
			return nil, true, err
		}
		return NewForLoop(init, cond, update, body), true, nil
	case "LoopStatement":
		body, err := decodeBlock(node["body"])
		if err != nil {
			return nil, true, err
		}
		return NewLoopStatement(body), true, nil
	case "BreakStatement":
		return NewBreakStatement(), true, nil
	case "ContinueStatement":
		return NewContinueStatement(), true, nil
	case "BlockStatement":
		stmts, err := decodeStatements(node["body"])
		if err != nil {
			return nil, true, err
		}
		return NewBlockStatement(stmts), true, nil
	default:
		return nil, false, nil
	}
}
