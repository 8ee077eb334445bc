package models

// Variant tags an item with its kind. The tag follows the collection an
// item was stored in and is never inferred from which fields are populated.
type Variant string

const (
	VariantNote     Variant = "note"
	VariantReminder Variant = "reminder"
	VariantDrawing  Variant = "drawing"
)

// Column names shared by every collection.
const (
	FieldTitle   = "title"
	FieldContent = "content"
	FieldDate    = "date"
	FieldImage   = "image"
)

type variantDescriptor struct {
	collection string
	fields     []string
}

var descriptors = map[Variant]variantDescriptor{
	VariantNote:     {collection: "notes", fields: []string{FieldTitle, FieldContent}},
	VariantReminder: {collection: "reminders", fields: []string{FieldTitle, FieldContent, FieldDate}},
	VariantDrawing:  {collection: "drawings", fields: []string{FieldTitle, FieldContent, FieldImage}},
}

// Variants lists every variant in a stable order.
func Variants() []Variant {
	return []Variant{VariantNote, VariantReminder, VariantDrawing}
}

// Collection is the table and URL segment for the variant.
func (v Variant) Collection() string {
	return descriptors[v].collection
}

// Valid reports whether v is a known variant.
func (v Variant) Valid() bool {
	_, ok := descriptors[v]
	return ok
}

// Allows reports whether field is writable for the variant.
func (v Variant) Allows(field string) bool {
	for _, f := range descriptors[v].fields {
		if f == field {
			return true
		}
	}
	return false
}

// Updates converts fields into a column map, keeping only what the
// variant allows.
func (v Variant) Updates(fields ItemFields) map[string]interface{} {
	updates := map[string]interface{}{}
	set := func(name string, value *string) {
		if value != nil && v.Allows(name) {
			updates[name] = *value
		}
	}
	set(FieldTitle, fields.Title)
	set(FieldContent, fields.Content)
	set(FieldDate, fields.Date)
	set(FieldImage, fields.Image)
	return updates
}

// VariantFromCollection resolves a collection name such as "notes".
func VariantFromCollection(collection string) (Variant, bool) {
	for v, d := range descriptors {
		if d.collection == collection {
			return v, true
		}
	}
	return "", false
}
