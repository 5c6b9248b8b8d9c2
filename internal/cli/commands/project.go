package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/nesso/internal/cli/output"
	"github.com/leapstack-labs/nesso/internal/metadata"
	"github.com/leapstack-labs/nesso/internal/project"
)

// NewProjectCommand creates the project command group.
func NewProjectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Inspect the current dbt project",
		Long: `Locate and inspect the dbt project used by nesso.

The project is the closest directory at or above the current one containing
dbt_project.yml. If there is none, nested projects laid out as
dbt/<name>/dbt_project.yml are searched, level by level upward; when one
level holds several you are asked to pick one.`,
	}

	cmd.AddCommand(newProjectLocateCommand())
	cmd.AddCommand(newProjectInfoCommand())
	cmd.AddCommand(newProjectEntitiesCommand())

	return cmd
}

func newProjectLocateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "locate",
		Short: "Print the dbt project directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			dir, ok, err := cc.resolveProject(cmd, "")
			if err != nil || !ok {
				return err
			}
			if cc.Renderer.EffectiveMode() == output.ModeJSON {
				return cc.Renderer.JSON(map[string]string{"project": dir.String()})
			}
			cc.Renderer.Println(dir.String())
			return nil
		},
	}
}

// ProjectInfo is the JSON form of project info.
type ProjectInfo struct {
	Directory    string   `json:"directory"`
	Name         string   `json:"name"`
	Version      string   `json:"version,omitempty"`
	Profile      string   `json:"profile"`
	MetadataDirs []string `json:"metadata_dirs"`
	ProfilesDir  string   `json:"profiles_dir"`
	Target       string   `json:"target,omitempty"`
	Schema       string   `json:"schema,omitempty"`
	TargetError  string   `json:"target_error,omitempty"`
}

func newProjectInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info [project-dir]",
		Short: "Show manifest, metadata paths and dbt target",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			explicit := ""
			if len(args) > 0 {
				explicit = args[0]
			}
			dir, ok, err := cc.resolveProject(cmd, explicit)
			if err != nil || !ok {
				return err
			}

			info, err := collectProjectInfo(cc, dir)
			if err != nil {
				return err
			}
			return renderProjectInfo(cc.Renderer, info)
		},
	}
}

func collectProjectInfo(cc *CommandContext, dir project.Directory) (*ProjectInfo, error) {
	manifest, err := project.LoadManifest(dir)
	if err != nil {
		return nil, err
	}

	info := &ProjectInfo{
		Directory:    dir.String(),
		Name:         manifest.Name,
		Version:      manifest.Version,
		Profile:      manifest.ProfileName(),
		MetadataDirs: dir.MetadataDirs(manifest),
		ProfilesDir:  project.ResolveProfilesDir(cc.Cfg.ProfilesDir, dir),
	}

	target, err := project.LoadTarget(info.ProfilesDir, info.Profile)
	if err != nil {
		cc.Logger.Debug("dbt target not resolved", "error", err)
		info.TargetError = err.Error()
	} else {
		info.Target = target.Name
		info.Schema = target.Schema
	}
	return info, nil
}

func renderProjectInfo(r *output.Renderer, info *ProjectInfo) error {
	target := info.Target
	schema := info.Schema
	if info.TargetError != "" {
		target = "(unresolved)"
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(info)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "dbt project "+info.Name))
		r.Println(output.FormatKeyValue("Directory", info.Directory))
		if info.Version != "" {
			r.Println(output.FormatKeyValue("Version", info.Version))
		}
		r.Println(output.FormatKeyValue("Profile", info.Profile))
		r.Println(output.FormatKeyValue("Metadata Dirs", strings.Join(info.MetadataDirs, ", ")))
		r.Println(output.FormatKeyValue("Profiles Dir", info.ProfilesDir))
		r.Println(output.FormatKeyValue("Target", target))
		if schema != "" {
			r.Println(output.FormatKeyValue("Schema", schema))
		}
	default:
		r.Header(1, "dbt project "+info.Name)
		rows := [][]string{
			{"Directory", info.Directory},
			{"Version", info.Version},
			{"Profile", info.Profile},
			{"Metadata Dirs", strings.Join(info.MetadataDirs, "\n")},
			{"Profiles Dir", info.ProfilesDir},
			{"Target", target},
			{"Schema", schema},
		}
		r.Table([]string{"Property", "Value"}, rows)
	}

	if info.TargetError != "" && r.EffectiveMode() != output.ModeJSON {
		r.Muted(info.TargetError)
	}
	return nil
}

// EntityInfo is one documented entity of the project.
type EntityInfo struct {
	Kind           string `json:"kind"`
	Source         string `json:"source,omitempty"`
	Name           string `json:"name"`
	File           string `json:"file"`
	Columns        int    `json:"columns"`
	TechnicalOwner string `json:"technical_owner"`
	BusinessOwner  string `json:"business_owner"`
}

func newProjectEntitiesCommand() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "entities [project-dir]",
		Short: "List documented sources, models and seeds with their owners",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			explicit := ""
			if len(args) > 0 {
				explicit = args[0]
			}
			dir, ok, err := cc.resolveProject(cmd, explicit)
			if err != nil || !ok {
				return err
			}

			entities, err := collectEntities(cc, dir, metadata.Kind(kind))
			if err != nil {
				return err
			}
			return renderEntities(cc.Renderer, entities)
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Only list one kind (sources|models|seeds)")
	_ = cmd.RegisterFlagCompletionFunc("kind", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"sources", "models", "seeds"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// collectEntities lists the entities of every readable property file.
// Files that cannot be parsed are skipped with a warning.
func collectEntities(cc *CommandContext, dir project.Directory, kind metadata.Kind) ([]EntityInfo, error) {
	files, err := cc.newValidator().Files(dir)
	if err != nil {
		return nil, err
	}

	var entities []EntityInfo
	for _, path := range files {
		doc, err := metadata.Load(path, metadata.ParseOptions{Strict: cc.Cfg.Strict})
		if err != nil {
			cc.Logger.Warn("skipping property file", "file", path, "error", err)
			continue
		}
		if kind != "" && doc.Kind != kind {
			continue
		}

		source := ""
		if doc.Kind == metadata.KindSources && len(doc.Sources) > 0 {
			source = doc.Sources[0].Name
		}
		for _, e := range doc.Entries {
			entities = append(entities, EntityInfo{
				Kind:           string(doc.Kind),
				Source:         source,
				Name:           e.Name,
				File:           relPath(dir, path),
				Columns:        len(e.Columns),
				TechnicalOwner: e.Meta.TechnicalOwner.String(),
				BusinessOwner:  e.Meta.BusinessOwner.String(),
			})
		}
	}
	return entities, nil
}

func renderEntities(r *output.Renderer, entities []EntityInfo) error {
	if r.EffectiveMode() == output.ModeJSON {
		if entities == nil {
			entities = []EntityInfo{}
		}
		return r.JSON(entities)
	}

	if len(entities) == 0 {
		r.Muted("No documented entities found")
		return nil
	}

	rows := make([][]string, 0, len(entities))
	for _, e := range entities {
		name := e.Name
		if e.Source != "" {
			name = e.Source + "." + e.Name
		}
		rows = append(rows, []string{
			e.Kind,
			name,
			fmt.Sprintf("%d", e.Columns),
			e.TechnicalOwner,
			e.BusinessOwner,
			e.File,
		})
	}

	r.Header(2, fmt.Sprintf("Entities (%d total)", len(entities)))
	r.Table([]string{"Kind", "Name", "Columns", output.Title("technical_owner"), output.Title("business_owner"), "File"}, rows)
	return nil
}
