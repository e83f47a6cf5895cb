package kdp

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Labels holds the class names a Model was trained with, indexed by class ID
type Labels []string

// LoadLabels reads the labels used to train the Model from the given text file.
// It should contain one label per line, blank lines are skipped.
func LoadLabels(file string) (Labels, error) {

	f, err := os.Open(file)

	if err != nil {
		return nil, errors.Wrap(err, "error opening labels file")
	}

	defer f.Close()

	scanner := bufio.NewScanner(f)

	var labels Labels

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		labels = append(labels, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "error reading labels file")
	}

	return labels, nil
}

// Name returns the label for class id, falling back to the numeric id when
// the label table does not cover it
func (l Labels) Name(id int) string {

	if id >= 0 && id < len(l) {
		return l[id]
	}

	return "class" + strconv.Itoa(id)
}
