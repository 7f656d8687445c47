package wiki

import (
	"bytes"
	"fmt"
	"strings"

	gm "github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

const (
	gemtextHeadingMarkerConstant       = "#"
	gemtextMaximumHeadingLevelConstant = 3
	gemtextLinkPrefixConstant          = "=> "
	gemtextListItemPrefixConstant      = "* "
	gemtextQuotePrefixConstant         = "> "
	gemtextPreformattedToggleConstant  = "```"
	gemtextThematicBreakConstant       = "---"
	gemtextBlockSeparatorConstant      = "\n\n"
	gemtextLineSeparatorConstant       = "\n"
	gemtextExtensionConstant           = ".gmi"
	gemtextTableCellSeparatorConstant  = " | "
	absoluteLinkMarkerConstant         = "://"
	mailtoSchemePrefixConstant         = "mailto:"
	fragmentSeparatorConstant          = "#"
	markdownExtensionConstant          = ".md"
	orderedListItemTemplateConstant    = "%d. "
	checkedTaskMarkerConstant          = "[x] "
	uncheckedTaskMarkerConstant        = "[ ] "
	emphasisMarkerConstant             = "*"
	strikethroughMarkerConstant        = "~~"
	codeSpanMarkerConstant             = "`"
)

// gemtextLink is a link target discovered while rendering a block.
type gemtextLink struct {
	destination string
	label       string
}

// Converter renders markdown documents as gemtext.
type Converter struct {
	markdown gm.Markdown
}

// NewConverter constructs a Converter that understands GitHub flavored markdown.
func NewConverter() *Converter {
	return &Converter{markdown: gm.New(gm.WithExtensions(extension.GFM))}
}

// Convert parses the markdown source and returns its gemtext rendition.
// The result carries no trailing newline.
func (converter *Converter) Convert(source []byte) string {
	document := converter.markdown.Parser().Parse(text.NewReader(source))

	renderedBlocks := make([]string, 0, document.ChildCount())
	for block := document.FirstChild(); block != nil; block = block.NextSibling() {
		renderer := &blockRenderer{source: source}
		renderedBlock := strings.TrimRight(renderer.renderBlock(block), gemtextLineSeparatorConstant)
		linkLines := renderer.linkLines()
		switch {
		case len(renderedBlock) > 0 && len(linkLines) > 0:
			renderedBlocks = append(renderedBlocks, renderedBlock+gemtextBlockSeparatorConstant+linkLines)
		case len(renderedBlock) > 0:
			renderedBlocks = append(renderedBlocks, renderedBlock)
		case len(linkLines) > 0:
			renderedBlocks = append(renderedBlocks, linkLines)
		}
	}
	return strings.Join(renderedBlocks, gemtextBlockSeparatorConstant)
}

// RewriteLinkDestination points relative wiki links at converted pages.
// Absolute URLs, mailto links and same-page anchors are returned unchanged.
func RewriteLinkDestination(destination string) string {
	if strings.Contains(destination, absoluteLinkMarkerConstant) || strings.HasPrefix(destination, mailtoSchemePrefixConstant) {
		return destination
	}

	pageName, fragment, hasFragment := strings.Cut(destination, fragmentSeparatorConstant)
	if len(pageName) == 0 {
		return destination
	}

	rewritten := strings.TrimSuffix(pageName, markdownExtensionConstant) + gemtextExtensionConstant
	if hasFragment {
		rewritten += fragmentSeparatorConstant + fragment
	}
	return rewritten
}

type blockRenderer struct {
	source []byte
	links  []gemtextLink
}

func (renderer *blockRenderer) linkLines() string {
	lines := make([]string, 0, len(renderer.links))
	for _, link := range renderer.links {
		line := gemtextLinkPrefixConstant + link.destination
		if len(link.label) > 0 && link.label != link.destination {
			line += " " + link.label
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, gemtextLineSeparatorConstant)
}

func (renderer *blockRenderer) renderBlock(block ast.Node) string {
	switch typedBlock := block.(type) {
	case *ast.Heading:
		level := typedBlock.Level
		if level > gemtextMaximumHeadingLevelConstant {
			level = gemtextMaximumHeadingLevelConstant
		}
		return strings.Repeat(gemtextHeadingMarkerConstant, level) + " " + renderer.renderInline(typedBlock)
	case *ast.Paragraph, *ast.TextBlock:
		return renderer.renderInline(typedBlock)
	case *ast.List:
		return renderer.renderList(typedBlock)
	case *ast.Blockquote:
		return renderer.renderBlockquote(typedBlock)
	case *ast.FencedCodeBlock:
		return renderer.renderPreformatted(typedBlock, string(typedBlock.Language(renderer.source)))
	case *ast.CodeBlock:
		return renderer.renderPreformatted(typedBlock, "")
	case *ast.ThematicBreak:
		return gemtextThematicBreakConstant
	case *east.Table:
		return renderer.renderTable(typedBlock)
	case *ast.HTMLBlock:
		return ""
	default:
		return renderer.renderChildBlocks(block)
	}
}

func (renderer *blockRenderer) renderChildBlocks(parent ast.Node) string {
	var renderedChildren []string
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		renderedChild := strings.TrimRight(renderer.renderBlock(child), gemtextLineSeparatorConstant)
		if len(renderedChild) > 0 {
			renderedChildren = append(renderedChildren, renderedChild)
		}
	}
	return strings.Join(renderedChildren, gemtextLineSeparatorConstant)
}

func (renderer *blockRenderer) renderList(list *ast.List) string {
	var lines []string
	itemNumber := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		prefix := gemtextListItemPrefixConstant
		if list.IsOrdered() {
			prefix = fmt.Sprintf(orderedListItemTemplateConstant, itemNumber)
			itemNumber++
		}

		var nestedLines []string
		itemText := ""
		for child := item.FirstChild(); child != nil; child = child.NextSibling() {
			if nestedList, isList := child.(*ast.List); isList {
				nestedLines = append(nestedLines, renderer.renderList(nestedList))
				continue
			}
			renderedChild := renderer.renderBlock(child)
			if len(renderedChild) == 0 {
				continue
			}
			if len(itemText) == 0 {
				itemText = renderedChild
			} else {
				itemText += " " + renderedChild
			}
		}

		lines = append(lines, prefix+strings.ReplaceAll(itemText, gemtextLineSeparatorConstant, " "))
		lines = append(lines, nestedLines...)
	}
	return strings.Join(lines, gemtextLineSeparatorConstant)
}

func (renderer *blockRenderer) renderBlockquote(quote *ast.Blockquote) string {
	quoted := renderer.renderChildBlocks(quote)
	if len(quoted) == 0 {
		return ""
	}
	quotedLines := strings.Split(quoted, gemtextLineSeparatorConstant)
	for index, line := range quotedLines {
		quotedLines[index] = gemtextQuotePrefixConstant + line
	}
	return strings.Join(quotedLines, gemtextLineSeparatorConstant)
}

func (renderer *blockRenderer) renderPreformatted(block ast.Node, altText string) string {
	var builder strings.Builder
	builder.WriteString(gemtextPreformattedToggleConstant)
	builder.WriteString(altText)
	builder.WriteString(gemtextLineSeparatorConstant)

	lines := block.Lines()
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		builder.Write(segment.Value(renderer.source))
	}

	content := builder.String()
	if !strings.HasSuffix(content, gemtextLineSeparatorConstant) {
		content += gemtextLineSeparatorConstant
	}
	return content + gemtextPreformattedToggleConstant
}

func (renderer *blockRenderer) renderTable(table *east.Table) string {
	var rows []string
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, strings.TrimSpace(renderer.renderInline(cell)))
		}
		rows = append(rows, strings.Join(cells, gemtextTableCellSeparatorConstant))
	}
	return gemtextPreformattedToggleConstant + gemtextLineSeparatorConstant +
		strings.Join(rows, gemtextLineSeparatorConstant) + gemtextLineSeparatorConstant +
		gemtextPreformattedToggleConstant
}

func (renderer *blockRenderer) renderInline(parent ast.Node) string {
	var buffer bytes.Buffer
	renderer.writeInlineChildren(&buffer, parent)
	return strings.TrimSpace(buffer.String())
}

func (renderer *blockRenderer) writeInlineChildren(buffer *bytes.Buffer, parent ast.Node) {
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		renderer.writeInline(buffer, child)
	}
}

func (renderer *blockRenderer) writeInline(buffer *bytes.Buffer, node ast.Node) {
	switch typedNode := node.(type) {
	case *ast.Text:
		buffer.Write(typedNode.Segment.Value(renderer.source))
		switch {
		case typedNode.HardLineBreak():
			buffer.WriteString(gemtextLineSeparatorConstant)
		case typedNode.SoftLineBreak():
			buffer.WriteString(" ")
		}
	case *ast.String:
		buffer.Write(typedNode.Value)
	case *ast.CodeSpan:
		buffer.WriteString(codeSpanMarkerConstant)
		renderer.writeInlineChildren(buffer, typedNode)
		buffer.WriteString(codeSpanMarkerConstant)
	case *ast.Emphasis:
		marker := strings.Repeat(emphasisMarkerConstant, typedNode.Level)
		buffer.WriteString(marker)
		renderer.writeInlineChildren(buffer, typedNode)
		buffer.WriteString(marker)
	case *east.Strikethrough:
		buffer.WriteString(strikethroughMarkerConstant)
		renderer.writeInlineChildren(buffer, typedNode)
		buffer.WriteString(strikethroughMarkerConstant)
	case *east.TaskCheckBox:
		if typedNode.IsChecked {
			buffer.WriteString(checkedTaskMarkerConstant)
		} else {
			buffer.WriteString(uncheckedTaskMarkerConstant)
		}
	case *ast.Link:
		labelStart := buffer.Len()
		renderer.writeInlineChildren(buffer, typedNode)
		renderer.addLink(RewriteLinkDestination(string(typedNode.Destination)), string(buffer.Bytes()[labelStart:]))
	case *ast.Image:
		// Images point at copied assets, so their targets keep their names.
		var altText bytes.Buffer
		renderer.writeInlineChildren(&altText, typedNode)
		renderer.addLink(string(typedNode.Destination), altText.String())
	case *ast.AutoLink:
		label := string(typedNode.Label(renderer.source))
		buffer.WriteString(label)
		renderer.links = append(renderer.links, gemtextLink{destination: string(typedNode.URL(renderer.source)), label: label})
	case *ast.RawHTML:
	default:
		renderer.writeInlineChildren(buffer, typedNode)
	}
}

func (renderer *blockRenderer) addLink(destination string, label string) {
	if len(destination) == 0 {
		return
	}
	renderer.links = append(renderer.links, gemtextLink{
		destination: destination,
		label:       strings.TrimSpace(label),
	})
}
