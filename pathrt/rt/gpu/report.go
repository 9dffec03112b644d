package gpu

import (
	"io"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// WritePlanReport renders plan as a table: one row per scene buffer and a
// footer with the total upload size.
func WritePlanReport(w io.Writer, plan *ScenePlan) {
	p := message.NewPrinter(language.English)

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Category", "Group", "Binding", "Records", "Stride", "Bytes", "Padded"})
	for _, b := range plan.Buffers {
		table.Append([]string{
			b.Category.String(),
			p.Sprintf("%d", SceneGroup),
			p.Sprintf("%d", b.Binding),
			p.Sprintf("%d", b.Count),
			p.Sprintf("%d", b.Category.Stride()),
			p.Sprintf("%d", len(b.Data)),
			p.Sprintf("%t", b.Padded),
		})
	}
	table.SetFooter([]string{"", "", "", "", "Total", p.Sprintf("%d", plan.TotalBytes()), ""})
	table.Render()

	p.Fprintf(w, "scene %s (%s), uniforms %d bytes\n", plan.Scene.Name, plan.Scene.ID, UniformSize)
}
