package services

import (
	"fmt"
	"html"
	"sort"

	"gorm.io/gorm"

	"github.com/lojf/inquisition/internal/ordering"
)

const (
	CollectionImages  = "images"
	CollectionOptions = "options"
)

// ImageCollection orders the images bound to a question. The child id is
// the image id.
func ImageCollection() Collection {
	return Collection{
		Table:        "question_image_bindings",
		ParentColumn: "question_id",
		KeyColumn:    "image_id",
		OrderColumn:  "display_order",
		LabelSelect:  "images.filename",
		Joins:        "JOIN images ON images.id = question_image_bindings.image_id",
		Label:        thumbTag,
	}
}

// OptionCollection orders the answer options of a question.
func OptionCollection() Collection {
	return Collection{
		Table:        "question_options",
		ParentColumn: "question_id",
		KeyColumn:    "id",
		OrderColumn:  "display_order",
		LabelSelect:  "question_options.title",
	}
}

func thumbTag(filename string) string {
	return fmt.Sprintf(`<img src="../images/thumb/%s" alt="" />`, html.EscapeString(filename))
}

// Binding is one orderable collection together with the copy its page shows.
type Binding struct {
	Name           string
	Title          string
	UpdatedMessage string
	Engine         *ordering.Engine
}

// Registry holds the collections enabled at startup and the resolvers the
// order pages need besides them.
type Registry struct {
	Questions    QuestionResolver
	Inquisitions InquisitionResolver

	bindings map[string]Binding
}

func NewRegistry(conn *gorm.DB, enabled []string) (*Registry, error) {
	r := &Registry{
		Questions:    QuestionResolver{DB: conn},
		Inquisitions: InquisitionResolver{DB: conn},
		bindings:     map[string]Binding{},
	}
	for _, name := range enabled {
		var b Binding
		switch name {
		case CollectionImages:
			b = Binding{
				Title:          "Change Image Order",
				UpdatedMessage: "Image order has been updated.",
				Engine:         ordering.New(r.Questions, NewTableStore(conn, ImageCollection())),
			}
		case CollectionOptions:
			b = Binding{
				Title:          "Order Options",
				UpdatedMessage: "Option order has been updated.",
				Engine:         ordering.New(r.Questions, NewTableStore(conn, OptionCollection())),
			}
		default:
			return nil, fmt.Errorf("unknown collection %q", name)
		}
		b.Name = name
		r.bindings[name] = b
	}
	return r, nil
}

func (r *Registry) Get(name string) (Binding, bool) {
	b, ok := r.bindings[name]
	return b, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.bindings))
	for n := range r.bindings {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
