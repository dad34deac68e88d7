package node

import (
	"encoding/json"
	"fmt"
)

// Decode reads a JSON element-tree document into the node model. Objects
// carrying a "type" or "styleId" key become elements, arrays become
// sequences, everything else stays primitive. Elements may appear nested in
// children, in sequences and in prop values.
//
// Wrapped-type references decoded from JSON are always tag strings; Named
// component references only exist in-process.
func Decode(data []byte) (any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unable to decode element tree: %w", err)
	}
	return fromJSON(raw)
}

func fromJSON(v any) (any, error) {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, c := range t {
			cv, err := fromJSON(c)
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		return out, nil
	case map[string]any:
		return elementFromJSON(t)
	}
	return v, nil
}

func elementFromJSON(obj map[string]any) (*Element, error) {
	el := &Element{}

	if v, ok := obj["type"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("element type must be a string, got %T", v)
		}
		el.Type = s
	}
	if v, ok := obj["styleId"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("element styleId must be a string, got %T", v)
		}
		el.StyleID = s
	}
	if el.Type == "" && el.StyleID == "" {
		return nil, fmt.Errorf("element object must carry type or styleId (keys: %d)", len(obj))
	}
	if v, ok := obj["wrapped"]; ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("element wrapped reference must be a tag string, got %T", v)
		}
		el.Wrapped = s
	}
	if v, ok := obj["shallow"]; ok {
		el.Shallow, _ = v.(bool)
	}
	if v, ok := obj["dom"]; ok {
		el.DOM, _ = v.(bool)
	}

	if props, ok := obj["props"].(map[string]any); ok {
		el.Props = make(map[string]any, len(props))
		for k, pv := range props {
			cv, err := fromJSON(pv)
			if err != nil {
				return nil, err
			}
			el.Props[k] = cv
		}
	}
	if children, ok := obj["children"].([]any); ok {
		el.Children = make([]any, len(children))
		for i, c := range children {
			cv, err := fromJSON(c)
			if err != nil {
				return nil, err
			}
			el.Children[i] = cv
		}
	}
	return el, nil
}
