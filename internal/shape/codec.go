package shape

import (
	"encoding/json"
	"fmt"
)

func (s *Rectangle) MarshalJSON() ([]byte, error) {
	type alias Rectangle
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{KindRectangle, (*alias)(s)})
}

func (s *Ellipse) MarshalJSON() ([]byte, error) {
	type alias Ellipse
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{KindEllipse, (*alias)(s)})
}

func (s *Diamond) MarshalJSON() ([]byte, error) {
	type alias Diamond
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{KindDiamond, (*alias)(s)})
}

func (s *Line) MarshalJSON() ([]byte, error) {
	type alias Line
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{KindLine, (*alias)(s)})
}

func (s *Arrow) MarshalJSON() ([]byte, error) {
	type alias Arrow
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{KindArrow, (*alias)(s)})
}

func (s *FreeDraw) MarshalJSON() ([]byte, error) {
	type alias FreeDraw
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{KindFreeDraw, (*alias)(s)})
}

func (s *Text) MarshalJSON() ([]byte, error) {
	type alias Text
	return json.Marshal(struct {
		Type Kind `json:"type"`
		*alias
	}{KindText, (*alias)(s)})
}

// Decode parses one shape record. Records without an opacity load as fully
// opaque; out-of-range opacity is clamped.
func Decode(data []byte) (Shape, error) {
	var head struct {
		Type    Kind     `json:"type"`
		Opacity *float64 `json:"opacity"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode shape: %w", err)
	}

	var s Shape
	switch head.Type {
	case KindRectangle:
		s = &Rectangle{}
	case KindEllipse:
		s = &Ellipse{}
	case KindDiamond:
		s = &Diamond{}
	case KindLine:
		s = &Line{}
	case KindArrow:
		s = &Arrow{}
	case KindFreeDraw:
		s = &FreeDraw{}
	case KindText:
		s = &Text{}
	default:
		return nil, fmt.Errorf("decode shape: unknown type %q", head.Type)
	}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode %s: %w", head.Type, err)
	}

	base := s.Base()
	if head.Opacity == nil {
		base.Opacity = MaxOpacity
	} else {
		base.Opacity = ClampOpacity(base.Opacity)
	}
	if base.ID == "" {
		base.ID = NewID()
	}
	return s, nil
}

// DecodeScene parses a JSON array of shape records.
func DecodeScene(data []byte) ([]Shape, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	scene := make([]Shape, 0, len(raw))
	for i, r := range raw {
		s, err := Decode(r)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		scene = append(scene, s)
	}
	return scene, nil
}

// EncodeScene serializes scene as a JSON array; a nil scene encodes as [].
func EncodeScene(scene []Shape) ([]byte, error) {
	if scene == nil {
		scene = []Shape{}
	}
	return json.Marshal(scene)
}
