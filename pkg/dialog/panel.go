package dialog

// ComponentKind identifies how a panel component is rendered.
type ComponentKind string

const (
	KindHeading  ComponentKind = "heading"
	KindText     ComponentKind = "text"
	KindRow      ComponentKind = "row"
	KindDivider  ComponentKind = "divider"
	KindCopyable ComponentKind = "copyable"
	KindWarning  ComponentKind = "warning"
)

// Component is a single line of disclosure inside a panel.
type Component struct {
	Kind  ComponentKind `json:"kind"`
	Label string        `json:"label,omitempty"`
	Value string        `json:"value,omitempty"`
}

// Panel groups components describing one part of a pending operation.
type Panel struct {
	Components []Component `json:"components"`
}

func NewPanel() *Panel {
	return &Panel{Components: make([]Component, 0, 8)}
}

func (p *Panel) Heading(text string) *Panel {
	return p.add(Component{Kind: KindHeading, Value: text})
}

func (p *Panel) Text(text string) *Panel {
	return p.add(Component{Kind: KindText, Value: text})
}

// Row adds a label/value pair. Rows with an empty value are skipped.
func (p *Panel) Row(label string, value string) *Panel {
	if value == "" {
		return p
	}
	return p.add(Component{Kind: KindRow, Label: label, Value: value})
}

func (p *Panel) Divider() *Panel {
	return p.add(Component{Kind: KindDivider})
}

// Copyable adds a value the user is expected to copy, such as an ID.
func (p *Panel) Copyable(value string) *Panel {
	return p.add(Component{Kind: KindCopyable, Value: value})
}

func (p *Panel) Warning(text string) *Panel {
	return p.add(Component{Kind: KindWarning, Value: text})
}

// Len reports the number of components.
func (p *Panel) Len() int {
	return len(p.Components)
}

// HasWarning reports whether any warning component is present.
func (p *Panel) HasWarning() bool {
	for _, component := range p.Components {
		if component.Kind == KindWarning {
			return true
		}
	}
	return false
}

func (p *Panel) add(component Component) *Panel {
	p.Components = append(p.Components, component)
	return p
}
