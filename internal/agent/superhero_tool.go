package agent

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"candidate-rag/internal/llm"
	"candidate-rag/internal/models"
)

// ProfileSource resolves a candidate's full document text by display name.
type ProfileSource interface {
	ProfileByName(ctx context.Context, name string) (string, error)
}

var superheroMiddleNames = []string{
	"Dragon", "Beast", "Rock", "Thunder", "Storm", "Steel",
	"Phoenix", "Titan", "Viper", "Shadow", "Blaze", "Frost",
	"Venom", "Raven", "Wolf", "Hawk", "Cobra", "Tiger",
}

const maxCharsPerCandidate = 3000

type superheroProfile struct {
	name    string
	content string
}

// CreateSuperheroTool builds a stylized combined profile from 2-3 existing
// candidates. Pure generation: the candidates' stored text goes into the
// prompt, no retrieval happens.
func CreateSuperheroTool(profiles ProfileSource, gen llm.Generator) Tool {
	return Tool{
		Name: "create_superhero",
		Description: "Create a superhero candidate by combining the best skills from 2-3 candidates. " +
			"Provide comma-separated candidate names (e.g., 'John Doe,Jane Smith'). " +
			"The superhero's name will be the first name of the first candidate " +
			"and last name of the second candidate.",
		Run: func(ctx context.Context, input string) (string, error) {
			names := splitNames(input)
			if len(names) < 2 || len(names) > 3 {
				return "Error: Please provide 2 or 3 candidate names separated by commas.", nil
			}

			data := make([]superheroProfile, 0, len(names))
			for _, name := range names {
				content, err := profiles.ProfileByName(ctx, name)
				if err != nil {
					return fmt.Sprintf("Error: %s", err), nil
				}
				if len(content) > maxCharsPerCandidate {
					content = content[:maxCharsPerCandidate] + "... [truncated]"
				}
				data = append(data, superheroProfile{name: name, content: content})
			}

			heroName := superheroName(names)
			profile, err := gen.Generate(ctx, superheroPrompt(data, heroName))
			if err != nil {
				return "", err
			}
			return formatSuperhero(heroName, names, profile), nil
		},
	}
}

func splitNames(input string) []string {
	var names []string
	for _, name := range strings.Split(input, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// superheroName combines the first name of the first candidate with the last
// name of the second, plus a middle name picked by hashing the inputs so the
// same combination always yields the same hero.
func superheroName(names []string) string {
	firstParts := strings.Fields(names[0])
	secondParts := strings.Fields(names[1])

	first := "Super"
	if len(firstParts) > 0 {
		first = firstParts[0]
	}
	last := "Hero"
	if len(secondParts) > 1 {
		last = secondParts[len(secondParts)-1]
	} else if len(secondParts) == 1 {
		last = secondParts[0]
	}

	h := fnv.New32a()
	h.Write([]byte(strings.Join(names, ",")))
	middle := superheroMiddleNames[h.Sum32()%uint32(len(superheroMiddleNames))]

	return fmt.Sprintf("%s '%s' %s", first, middle, last)
}

func superheroPrompt(data []superheroProfile, heroName string) string {
	info := make([]string, len(data))
	for i, d := range data {
		info[i] = fmt.Sprintf("Candidate %d (%s):\n%s", i+1, d.name, d.content)
	}
	return fmt.Sprintf(models.SuperheroPromptTemplate, strings.Join(info, "\n\n"), heroName)
}

func formatSuperhero(heroName string, names []string, profile string) string {
	divider := strings.Repeat("-", 80)
	return fmt.Sprintf(`SUPERHERO CANDIDATE CREATED!

Name: %s
Combined from: %d candidates
- %s

%s

%s

%s

This superhero candidate combines the best qualities from all %d candidates!`,
		heroName, len(names), strings.Join(names, ", "), divider, profile, divider, len(names))
}
