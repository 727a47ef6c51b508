package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ProductInput is a product payload after coercion. Nil fields were absent.
type ProductInput struct {
	Name          *string
	Description   *string
	Brand         *string
	Category      *string
	UnitType      *string
	Status        *string
	Price         *decimal.Decimal
	OriginalPrice *decimal.Decimal
	Stock         *int
	IsNew         *bool
	IsFeatured    *bool
	Rating        *models.Rating
	Image         []string
	Variants      []models.Variant
	MetaKeywords  []string
	Details       map[string]any

	ImageSet        bool
	VariantsSet     bool
	MetaKeywordsSet bool

	ExistingImages  []string
	ReplaceImages   bool
	RemoveAllImages bool
}

// FormValues flattens a multipart form into the raw map ParseProductInput expects.
func FormValues(form map[string][]string) map[string]any {
	raw := make(map[string]any, len(form))
	for k, vs := range form {
		switch len(vs) {
		case 0:
		case 1:
			raw[k] = vs[0]
		default:
			list := make([]any, len(vs))
			for i, v := range vs {
				list[i] = v
			}
			raw[k] = list
		}
	}
	return raw
}

// ParseProductInput coerces a loosely typed payload (multipart form or JSON).
// Numbers may arrive as strings, booleans as "true", lists as JSON text or
// comma separated text.
func ParseProductInput(raw map[string]any) (*ProductInput, error) {
	in := &ProductInput{}
	var err error

	in.Name = optString(raw, "name")
	in.Description = optString(raw, "description")
	in.Brand = optString(raw, "brand")
	in.Category = optString(raw, "category")
	in.UnitType = optString(raw, "unitType")
	in.Status = optString(raw, "status")

	if in.Price, err = optDecimal(raw, "price"); err != nil {
		return nil, err
	}
	if in.OriginalPrice, err = optDecimal(raw, "originalPrice"); err != nil {
		return nil, err
	}
	if in.Stock, err = optInt(raw, "stock"); err != nil {
		return nil, err
	}
	in.IsNew = optBool(raw, "isNew")
	in.IsFeatured = optBool(raw, "isFeatured")

	imgKey := "image"
	if _, ok := raw[imgKey]; !ok {
		imgKey = "images"
	}
	if v, ok := raw[imgKey]; ok {
		in.Image, in.ImageSet = imageList(v), true
	}
	if v, ok := raw["existingImages"]; ok {
		in.ExistingImages = imageList(v)
	}
	in.ReplaceImages = flag(raw["replaceImages"])
	in.RemoveAllImages = flag(raw["removeAllImages"])

	if v, ok := raw["metaKeywords"]; ok {
		in.MetaKeywords, in.MetaKeywordsSet = keywordList(v), true
	}
	if v, ok := raw["variants"]; ok {
		if err := decodeLoose(v, &in.Variants); err != nil {
			return nil, fmt.Errorf("variants: %w", err)
		}
		in.VariantsSet = true
	}
	if v, ok := raw["rating"]; ok {
		var r models.Rating
		if err := decodeLoose(v, &r); err != nil {
			return nil, fmt.Errorf("rating: %w", err)
		}
		in.Rating = &r
	}
	in.Details = details(raw)
	return in, nil
}

// Apply copies the present fields onto p.
func (in *ProductInput) Apply(p *models.Product) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setStr(&p.Name, in.Name)
	setStr(&p.Description, in.Description)
	setStr(&p.Brand, in.Brand)
	setStr(&p.Category, in.Category)
	setStr(&p.UnitType, in.UnitType)
	setStr(&p.Status, in.Status)
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.OriginalPrice != nil {
		p.OriginalPrice = decimal.NewNullDecimal(*in.OriginalPrice)
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.IsNew != nil {
		p.IsNew = *in.IsNew
	}
	if in.IsFeatured != nil {
		p.IsFeatured = *in.IsFeatured
	}
	if in.Rating != nil {
		p.Rating = datatypes.NewJSONType(*in.Rating)
	}
	if in.VariantsSet {
		p.Variants = in.Variants
	}
	if in.MetaKeywordsSet {
		p.MetaKeywords = in.MetaKeywords
	}
	if len(in.Details) > 0 {
		if p.Details == nil {
			p.Details = map[string]any{}
		}
		for k, v := range in.Details {
			p.Details[k] = v
		}
	}
}

func optString(raw map[string]any, key string) *string {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case []any:
		if len(t) == 0 {
			return nil
		}
		s = fmt.Sprint(t[0])
	default:
		s = fmt.Sprint(t)
	}
	return &s
}

func optDecimal(raw map[string]any, key string) (*decimal.Decimal, error) {
	v, ok := raw[key]
	if !ok || v == nil || v == "" {
		return nil, nil
	}
	var d decimal.Decimal
	switch t := v.(type) {
	case float64:
		d = decimal.NewFromFloat(t)
	case json.Number:
		parsed, err := decimal.NewFromString(t.String())
		if err != nil {
			return nil, fmt.Errorf("%s must be a number", key)
		}
		d = parsed
	default:
		parsed, err := decimal.NewFromString(strings.TrimSpace(fmt.Sprint(t)))
		if err != nil {
			return nil, fmt.Errorf("%s must be a number", key)
		}
		d = parsed
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%s cannot be negative", key)
	}
	return &d, nil
}

func optInt(raw map[string]any, key string) (*int, error) {
	d, err := optDecimal(raw, key)
	if err != nil || d == nil {
		return nil, err
	}
	if !d.Equal(d.Truncate(0)) {
		return nil, fmt.Errorf("%s must be a whole number", key)
	}
	n := int(d.IntPart())
	return &n, nil
}

func optBool(raw map[string]any, key string) *bool {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil
	}
	b := flag(v)
	return &b
}

func flag(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(t))
		return b
	}
	return false
}

// imageList accepts an array, a JSON array string or a single locator.
func imageList(v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{}
	case []string:
		return compact(t)
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			out = append(out, fmt.Sprint(e))
		}
		return compact(out)
	case string:
		s := strings.TrimSpace(t)
		var list []string
		if strings.HasPrefix(s, "[") && json.Unmarshal([]byte(s), &list) == nil {
			return compact(list)
		}
		return compact([]string{s})
	}
	return []string{}
}

// keywordList accepts an array, a JSON array string or comma separated text.
func keywordList(v any) []string {
	if s, ok := v.(string); ok {
		var list []string
		if json.Unmarshal([]byte(s), &list) == nil {
			return compact(list)
		}
		return compact(strings.Split(s, ","))
	}
	return imageList(v)
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// decodeLoose fills dst from a JSON string or an already decoded value.
func decodeLoose(v any, dst any) error {
	var data []byte
	if s, ok := v.(string); ok {
		data = []byte(s)
	} else {
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		data = b
	}
	return json.Unmarshal(data, dst)
}

// details gathers rich-content sections from a "details" object and from
// top-level section keys. Sections sent as JSON text are decoded; plain
// text is kept as is.
func details(raw map[string]any) map[string]any {
	out := map[string]any{}
	if v, ok := raw["details"]; ok {
		var m map[string]any
		if decodeLoose(v, &m) == nil {
			for k, sv := range m {
				out[k] = sectionValue(sv)
			}
		}
	}
	for _, key := range models.DetailSections {
		if v, ok := raw[key]; ok {
			out[key] = sectionValue(v)
		}
	}
	return out
}

func sectionValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	var decoded any
	if trimmed := strings.TrimSpace(s); (strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")) &&
		json.Unmarshal([]byte(trimmed), &decoded) == nil {
		return decoded
	}
	return s
}
