package console

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/handiism/netease-downloader/internal/model"
)

// Prompter asks interactive questions on the terminal.
type Prompter struct {
	opts []survey.AskOpt
}

// NewPrompter creates a Prompter. opts are passed to every survey question.
func NewPrompter(opts ...survey.AskOpt) *Prompter {
	return &Prompter{opts: opts}
}

// ConfirmOverwrite asks whether an existing file may be replaced.
// Any prompt failure, including an interrupt, answers no.
func (p *Prompter) ConfirmOverwrite(path string) bool {
	overwrite := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("%s already exists. Overwrite?", path),
		Default: false,
	}
	if err := survey.AskOne(prompt, &overwrite, p.opts...); err != nil {
		return false
	}
	return overwrite
}

// SelectSongs lets the user pick search results to download. An interrupted
// prompt yields no selection and no error.
func (p *Prompter) SelectSongs(songs []model.SongInfo) ([]model.SongInfo, error) {
	if len(songs) == 0 {
		return nil, nil
	}

	options := make([]string, len(songs))
	for i := range songs {
		options[i] = fmt.Sprintf("%s  [%s]", songs[i].Title(), songs[i].ID)
	}

	var picked []int
	prompt := &survey.MultiSelect{
		Message:  "Select songs to download:",
		Options:  options,
		PageSize: 10,
	}
	if err := survey.AskOne(prompt, &picked, p.opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return nil, nil
		}
		return nil, err
	}

	selected := make([]model.SongInfo, 0, len(picked))
	for _, i := range picked {
		selected = append(selected, songs[i])
	}
	return selected, nil
}
