package postprocess

import (
	"sort"
)

// unpassScore marks a box suppressed by a higher scoring overlapping box
const unpassScore = -1

// NMSConfig defines the parameters for class aware Non-Maximum Suppression
type NMSConfig struct {
	// IoUThreshold is the overlap above which the lower scoring box of a pair
	// is suppressed
	IoUThreshold float32
	// ScoreThreshold is the minimum score a box needs to be kept.  Decode has
	// already gated on score so zero disables it.
	ScoreThreshold float32
	// MaxBoxes caps the total number of boxes returned
	MaxBoxes int
	// MaxPerClass caps the number of boxes returned for a single class
	MaxPerClass int
}

// NMS runs Non-Maximum Suppression on candidates for each class in
// [0, classCount) and writes the kept boxes into results, returning the
// number written.  tmp is working memory of at least len(candidates) entries
// and results must hold at least MaxBoxes entries.
func NMS(candidates []BoundingBox, classCount int, cfg NMSConfig,
	tmp []BoundingBox, results []BoundingBox) int {

	if len(tmp) < len(candidates) {
		tmp = make([]BoundingBox, len(candidates))
	}

	total := 0

	for class := 0; class < classCount; class++ {

		if total >= cfg.MaxBoxes {
			break
		}

		// gather this class
		n := 0

		for i := range candidates {
			if candidates[i].Class == class {
				tmp[n] = candidates[i]
				n++
			}
		}

		if n == 0 {
			continue
		}

		if n == 1 {
			results[total] = tmp[0]
			total++
			continue
		}

		boxes := tmp[:n]

		sort.Slice(boxes, func(i, j int) bool {
			return boxes[i].Score > boxes[j].Score
		})

		classTotal := 0

		for j := 0; j < n; j++ {

			if boxes[j].Score == unpassScore || boxes[j].Score < cfg.ScoreThreshold {
				continue
			}

			for k := j + 1; k < n; k++ {
				if boxes[k].Score == unpassScore {
					continue
				}

				if iou(&boxes[j], &boxes[k]) > cfg.IoUThreshold {
					boxes[k].Score = unpassScore
				}
			}

			results[total] = boxes[j]
			total++
			classTotal++

			if total >= cfg.MaxBoxes || classTotal >= cfg.MaxPerClass {
				break
			}
		}
	}

	return total
}
