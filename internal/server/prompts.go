package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ironsheep/uml-tools-mcp/internal/diagram"
)

const basePrompt = `You are an expert in UML diagrams. Create a UML diagram based on the description.

Follow these guidelines:
1. Use proper UML notation and syntax
2. Include all necessary elements mentioned in the description
3. Organize the diagram to be readable and clear
4. Add appropriate relationships between elements

Provide the diagram code that can be directly used to generate the UML diagram:
`

// guidelines holds the extra instructions for each typed prompt.
var guidelines = map[string]string{
	"class": `For a class diagram:
- Show each class with its attributes and methods, marking visibility with +, -, # and ~
- Use inheritance (<|--), composition (*--), aggregation (o--) and association (-->) as the domain requires
- Add multiplicities on associations where they matter
- Group related classes into packages when there are many of them`,
	"sequence": `For a sequence diagram:
- Declare the participants in the order they first act, using actor and database where they fit
- Use -> for calls and --> for returns, labelling every message
- Use alt, opt and loop fragments for conditional and repeated interactions
- Activate participants while they are processing a call`,
	"activity": `For an activity diagram:
- Begin with start and finish with stop or end
- Write each action as :Action; with a short verb phrase
- Use if/else/endif for decisions and fork/end fork for parallel work
- Use swimlanes (|Lane|) when several actors take part`,
	"usecase": `For a use case diagram:
- Declare the actors outside a rectangle that represents the system boundary
- Name use cases with a verb and an object, e.g. (Place order)
- Connect actors to the use cases they take part in
- Use include and extend relationships between use cases where they apply`,
}

// promptTypes are the diagram types with a dedicated prompt, in
// registration order.
var promptTypes = []string{"class", "sequence", "activity", "usecase"}

func (s *Server) registerPrompts() {
	descArg := []*mcp.PromptArgument{{
		Name:        "description",
		Description: "What the diagram should show",
		Required:    false,
	}}

	s.addPrompt(&mcp.Prompt{
		Name:        "uml_diagram",
		Description: "Ask for a UML diagram of any type from a description",
		Arguments:   descArg,
	}, func(desc string) string {
		return basePrompt + descriptionBlock(desc)
	})

	for _, t := range promptTypes {
		typ := t
		s.addPrompt(&mcp.Prompt{
			Name:        typ + "_diagram",
			Description: fmt.Sprintf("Ask for a PlantUML %s diagram from a description", typ),
			Arguments:   descArg,
		}, func(desc string) string {
			return typedPrompt(typ, desc)
		})
	}
}

// typedPrompt is the base prompt followed by the type's guidelines and an
// example to imitate.
func typedPrompt(typ, desc string) string {
	var b strings.Builder
	b.WriteString(basePrompt)
	fmt.Fprintf(&b, "\nThis should be a %s diagram.\n\n", typ)
	b.WriteString(guidelines[typ])
	if ex := diagram.Example(typ); ex != "" {
		b.WriteString("\n\nExample:\n```plantuml\n")
		b.WriteString(ex)
		b.WriteString("\n```")
	}
	b.WriteString(descriptionBlock(desc))
	fmt.Fprintf(&b, "\nProvide the complete PlantUML code for the %s diagram:\n", typ)
	return b.String()
}

func descriptionBlock(desc string) string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return ""
	}
	return "\n\nDescription:\n" + desc + "\n"
}

// addPrompt registers a prompt rendered by text from its description
// argument.
func (s *Server) addPrompt(p *mcp.Prompt, text func(desc string) string) {
	s.mcp.AddPrompt(p, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		var desc string
		if req.Params != nil {
			desc = req.Params.Arguments["description"]
		}
		return &mcp.GetPromptResult{
			Description: p.Description,
			Messages: []*mcp.PromptMessage{{
				Role:    "user",
				Content: &mcp.TextContent{Text: text(desc)},
			}},
		}, nil
	})
	s.promptNames = append(s.promptNames, p.Name)
}
