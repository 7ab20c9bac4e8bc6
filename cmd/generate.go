package cmd

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	generateCount  int
	generateOutput string
	generateSplit  float64
	generateSeed   int64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic SMS dataset",
	Long: `Generate a synthetic labelled SMS dataset for benchmarking and testing.

The output is a TSV file in the same "label<TAB>text" format the train
and evaluate commands consume.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if generateCount <= 0 {
			return fmt.Errorf("count must be greater than 0")
		}

		if generateSplit < 0 || generateSplit > 1 {
			return fmt.Errorf("spam-ratio must be between 0 and 1")
		}

		seed := generateSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		generator := newMessageGenerator(seed)

		// Calculate spam vs ham counts
		spamCount := int(float64(generateCount) * generateSplit)
		hamCount := generateCount - spamCount

		fmt.Printf("🧪 Generating test messages...\n")
		fmt.Printf("💬 Total messages: %d\n", generateCount)
		fmt.Printf("🚫 Spam messages: %d (%.1f%%)\n", spamCount, generateSplit*100)
		fmt.Printf("✅ Ham messages: %d (%.1f%%)\n", hamCount, (1-generateSplit)*100)
		fmt.Printf("📂 Output file: %s\n\n", generateOutput)

		start := time.Now()

		file, err := os.Create(generateOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %v", err)
		}
		defer file.Close()

		// Interleave labels so splits of the file stay representative.
		writer := bufio.NewWriter(file)
		remaining := [2]int{hamCount, spamCount}
		for remaining[0]+remaining[1] > 0 {
			pickSpam := generator.rand.Float64()*float64(remaining[0]+remaining[1]) < float64(remaining[1])
			if pickSpam {
				fmt.Fprintf(writer, "spam\t%s\n", generator.GenerateSpamMessage())
				remaining[1]--
			} else {
				fmt.Fprintf(writer, "ham\t%s\n", generator.GenerateHamMessage())
				remaining[0]--
			}
		}
		if err := writer.Flush(); err != nil {
			return fmt.Errorf("failed to write output file: %v", err)
		}

		duration := time.Since(start)

		fmt.Printf("✅ Generation complete!\n")
		fmt.Printf("⏱️ Time taken: %v\n", duration)
		fmt.Printf("📈 Rate: %.0f messages/second\n", float64(generateCount)/duration.Seconds())
		fmt.Printf("🚀 Try it: zpam-sms evaluate --input %s --split 0.8\n", generateOutput)

		return nil
	},
}

// messageGenerator produces synthetic SMS text in both classes.
type messageGenerator struct {
	rand *rand.Rand

	spamTemplates []string
	spamPrizes    []string
	spamNumbers   []string
	hamTemplates  []string
	hamTopics     []string
	hamTimes      []string
}

func newMessageGenerator(seed int64) *messageGenerator {
	return &messageGenerator{
		rand: rand.New(rand.NewSource(seed)),

		spamTemplates: []string{
			"CONGRATULATIONS! You have won %s! Call %s now to claim your prize",
			"URGENT! Your mobile number has been awarded %s. Text WIN to %s",
			"FREE entry into our weekly draw for %s! Reply YES to %s now",
			"You have been selected for %s. Claim now on %s before it expires",
			"WINNER!! Claim your %s cash reward today. Call %s. Offer ends tonight",
			"Exclusive offer: %s for our loyal customers. Text CLAIM to %s",
			"FINAL NOTICE: your %s is waiting. Dial %s immediately to collect",
			"Hot deal! Get %s absolutely free. Reply STOP to opt out or call %s",
		},

		spamPrizes: []string{
			"a 1000 pound prize", "2000 in cash", "a brand new phone",
			"a luxury holiday", "500 free texts", "a secret gift",
			"guaranteed cash", "a premium membership",
		},

		spamNumbers: []string{
			"80082", "87121", "62468", "09061701461", "08712300220", "85233",
		},

		hamTemplates: []string{
			"hey are we still on for %s %s",
			"running late sorry, see you at %s around %s",
			"can you pick up %s on the way home",
			"thanks for %s yesterday, really appreciated it",
			"dont forget %s %s",
			"just left work, home in twenty minutes",
			"lol that was so funny, tell me more at %s",
			"meeting moved to %s, see you there",
			"ok sounds good, call me when you are free",
			"what time works for %s %s",
		},

		hamTopics: []string{
			"lunch", "dinner", "the gym", "milk", "the meeting", "coffee",
			"the game", "your help", "the lift", "bread", "the movie",
		},

		hamTimes: []string{
			"tomorrow", "tonight", "noon", "friday", "this weekend",
			"after work", "six", "next week",
		},
	}
}

// GenerateSpamMessage produces one synthetic spam SMS.
func (g *messageGenerator) GenerateSpamMessage() string {
	template := g.randomChoice(g.spamTemplates)
	message := fmt.Sprintf(template, g.randomChoice(g.spamPrizes), g.randomChoice(g.spamNumbers))

	// Spammers love exclamation marks.
	if g.rand.Float64() < 0.4 {
		message += "!!!"
	}
	return message
}

// GenerateHamMessage produces one synthetic ham SMS.
func (g *messageGenerator) GenerateHamMessage() string {
	template := g.randomChoice(g.hamTemplates)

	// Templates take zero, one or two fill-ins.
	switch countVerbs(template) {
	case 2:
		return fmt.Sprintf(template, g.randomChoice(g.hamTopics), g.randomChoice(g.hamTimes))
	case 1:
		return fmt.Sprintf(template, g.randomChoice(g.hamTopics))
	default:
		return template
	}
}

// countVerbs counts the %s placeholders in a template.
func countVerbs(template string) int {
	count := 0
	for i := 0; i+1 < len(template); i++ {
		if template[i] == '%' && template[i+1] == 's' {
			count++
		}
	}
	return count
}

// randomChoice selects a random item from slice
func (g *messageGenerator) randomChoice(items []string) string {
	return items[g.rand.Intn(len(items))]
}

func init() {
	generateCmd.Flags().IntVarP(&generateCount, "count", "n", 1000, "Number of messages to generate")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "sms-test-data.tsv", "Output TSV file")
	generateCmd.Flags().Float64VarP(&generateSplit, "spam-ratio", "r", 0.15, "Ratio of spam messages (0.0-1.0)")
	generateCmd.Flags().Int64Var(&generateSeed, "seed", 0, "Random seed (0 = time-based)")
}
