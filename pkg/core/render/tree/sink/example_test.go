package sink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/kintree/pkg/core/family"
	"github.com/matzehuels/kintree/pkg/core/render"
	"github.com/matzehuels/kintree/pkg/core/render/tree/layout"
	"github.com/matzehuels/kintree/pkg/core/render/tree/sink"
)

func ExampleRenderSVG() {
	t := family.New()
	a := t.AddMember(&family.Person{GivenName: "Lea"})
	b := t.AddMember(&family.Person{GivenName: "Max"})
	_ = t.AddPartner(a.ID, b.ID)

	svg := sink.RenderSVG(layout.Build(t), sink.WithTree(t), sink.WithTheme(render.Light))

	s := string(svg)
	fmt.Println(strings.HasPrefix(s, "<svg"))
	fmt.Println(strings.Contains(s, ">Lea</text>"), strings.Contains(s, ">Max</text>"))
	// Output:
	// true
	// true true
}
