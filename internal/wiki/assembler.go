package wiki

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

const (
	// DefaultFooterName is the wiki page appended to every converted page.
	DefaultFooterName = "_Footer.md"
	// DefaultHomeName is the wiki page rendered as the capsule index.
	DefaultHomeName = "Home.md"
	// DefaultSidebarName is the wiki sidebar, which has no gemtext counterpart.
	DefaultSidebarName = "_Sidebar.md"
	// IndexPageName is the output name of the home page.
	IndexPageName = "index.gmi"

	pageListHeaderConstant          = "## Pages\n\n"
	pageListHomeLinkConstant        = "=> ./ Home\n"
	pageListEntryTemplateConstant   = "=> %s %s\n"
	pageListTerminatorConstant      = "\n\n"
	pageTitleTemplateConstant       = "# %s\n\n"
	pageFooterSeparatorConstant     = "\n\n\n\n"
	pageTrailingNewlineConstant     = "\n"
	titleWordSeparatorConstant      = "-"
	titleSpaceConstant              = " "
	outputFilePermissionsConstant   = 0o644
	readPageErrorTemplateConstant   = "unable to read wiki page %s: %w"
	writePageErrorTemplateConstant  = "unable to write gemtext page %s: %w"
	copyAssetErrorTemplateConstant  = "unable to copy wiki asset %s: %w"
	listSourceErrorTemplateConstant = "unable to list wiki directory %s: %w"
	invalidPatternTemplateConstant  = "%w: %s"
	invalidPatternMessageConstant   = "invalid exclusion pattern"
)

// ErrInvalidExclusionPattern indicates an exclusion glob that doublestar cannot parse.
var ErrInvalidExclusionPattern = errors.New(invalidPatternMessageConstant)

// Layout names the special wiki files and the files left out of the capsule.
type Layout struct {
	FooterName       string
	HomeName         string
	ExcludedPatterns []string
}

// DefaultLayout matches the file naming of GitHub wikis.
func DefaultLayout() Layout {
	return Layout{
		FooterName:       DefaultFooterName,
		HomeName:         DefaultHomeName,
		ExcludedPatterns: []string{DefaultSidebarName},
	}
}

// AssemblyResult lists the files written into the output directory.
type AssemblyResult struct {
	Pages  []string
	Assets []string
}

// Assembler turns a flat wiki directory into gemtext pages and copied assets.
type Assembler struct {
	fileSystem afero.Fs
	converter  *Converter
	layout     Layout
}

// NewAssembler validates the layout's exclusion patterns and constructs an Assembler.
func NewAssembler(fileSystem afero.Fs, converter *Converter, layout Layout) (*Assembler, error) {
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	if converter == nil {
		converter = NewConverter()
	}
	defaults := DefaultLayout()
	if len(strings.TrimSpace(layout.FooterName)) == 0 {
		layout.FooterName = defaults.FooterName
	}
	if len(strings.TrimSpace(layout.HomeName)) == 0 {
		layout.HomeName = defaults.HomeName
	}
	for _, pattern := range layout.ExcludedPatterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf(invalidPatternTemplateConstant, ErrInvalidExclusionPattern, pattern)
		}
	}
	return &Assembler{fileSystem: fileSystem, converter: converter, layout: layout}, nil
}

// Assemble converts every markdown page in sourceDirectory and copies every other file.
// Only the top level of sourceDirectory is considered.
func (assembler *Assembler) Assemble(sourceDirectory string, outputDirectory string) (AssemblyResult, error) {
	fileNames, listError := assembler.listWikiFiles(sourceDirectory)
	if listError != nil {
		return AssemblyResult{}, listError
	}

	footer, footerError := assembler.convertFooter(sourceDirectory)
	if footerError != nil {
		return AssemblyResult{}, footerError
	}
	pageList := assembler.buildPageList(fileNames)

	var result AssemblyResult
	for _, fileName := range fileNames {
		if fileName == assembler.layout.FooterName {
			continue
		}

		sourcePath := filepath.Join(sourceDirectory, fileName)
		if !isMarkdownFile(fileName) {
			outputPath := filepath.Join(outputDirectory, fileName)
			if copyError := assembler.copyFile(sourcePath, outputPath); copyError != nil {
				return AssemblyResult{}, fmt.Errorf(copyAssetErrorTemplateConstant, fileName, copyError)
			}
			result.Assets = append(result.Assets, outputPath)
			continue
		}

		markdown, readError := afero.ReadFile(assembler.fileSystem, sourcePath)
		if readError != nil {
			return AssemblyResult{}, fmt.Errorf(readPageErrorTemplateConstant, fileName, readError)
		}

		page := fmt.Sprintf(pageTitleTemplateConstant, PageTitle(fileName)) +
			pageList +
			assembler.converter.Convert(markdown) +
			pageFooterSeparatorConstant +
			footer +
			pageTrailingNewlineConstant

		outputPath := filepath.Join(outputDirectory, assembler.outputPageName(fileName))
		if writeError := afero.WriteFile(assembler.fileSystem, outputPath, []byte(page), outputFilePermissionsConstant); writeError != nil {
			return AssemblyResult{}, fmt.Errorf(writePageErrorTemplateConstant, outputPath, writeError)
		}
		result.Pages = append(result.Pages, outputPath)
	}

	return result, nil
}

// PageTitle derives a human title from a wiki file name.
func PageTitle(fileName string) string {
	return strings.ReplaceAll(strings.TrimSuffix(fileName, markdownExtensionConstant), titleWordSeparatorConstant, titleSpaceConstant)
}

func (assembler *Assembler) outputPageName(fileName string) string {
	if fileName == assembler.layout.HomeName {
		return IndexPageName
	}
	return strings.TrimSuffix(fileName, markdownExtensionConstant) + gemtextExtensionConstant
}

func (assembler *Assembler) buildPageList(fileNames []string) string {
	var builder strings.Builder
	builder.WriteString(pageListHeaderConstant)
	builder.WriteString(pageListHomeLinkConstant)
	for _, fileName := range fileNames {
		if fileName == assembler.layout.FooterName || fileName == assembler.layout.HomeName || !isMarkdownFile(fileName) {
			continue
		}
		builder.WriteString(fmt.Sprintf(pageListEntryTemplateConstant, assembler.outputPageName(fileName), PageTitle(fileName)))
	}
	builder.WriteString(pageListTerminatorConstant)
	return builder.String()
}

func (assembler *Assembler) convertFooter(sourceDirectory string) (string, error) {
	footerPath := filepath.Join(sourceDirectory, assembler.layout.FooterName)
	exists, existsError := afero.Exists(assembler.fileSystem, footerPath)
	if existsError != nil {
		return "", existsError
	}
	if !exists {
		return "", nil
	}
	footerMarkdown, readError := afero.ReadFile(assembler.fileSystem, footerPath)
	if readError != nil {
		return "", fmt.Errorf(readPageErrorTemplateConstant, assembler.layout.FooterName, readError)
	}
	return assembler.converter.Convert(footerMarkdown), nil
}

// listWikiFiles returns the sorted names of regular files that survive the exclusion patterns.
func (assembler *Assembler) listWikiFiles(sourceDirectory string) ([]string, error) {
	entries, readError := afero.ReadDir(assembler.fileSystem, sourceDirectory)
	if readError != nil {
		return nil, fmt.Errorf(listSourceErrorTemplateConstant, sourceDirectory, readError)
	}

	fileNames := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || assembler.isExcluded(entry.Name()) {
			continue
		}
		fileNames = append(fileNames, entry.Name())
	}
	return fileNames, nil
}

func (assembler *Assembler) isExcluded(fileName string) bool {
	for _, pattern := range assembler.layout.ExcludedPatterns {
		if matched, matchError := doublestar.Match(pattern, fileName); matchError == nil && matched {
			return true
		}
	}
	return false
}

func (assembler *Assembler) copyFile(sourcePath string, destinationPath string) error {
	content, readError := afero.ReadFile(assembler.fileSystem, sourcePath)
	if readError != nil {
		return readError
	}
	return afero.WriteFile(assembler.fileSystem, destinationPath, content, outputFilePermissionsConstant)
}

func isMarkdownFile(fileName string) bool {
	return strings.HasSuffix(fileName, markdownExtensionConstant)
}
