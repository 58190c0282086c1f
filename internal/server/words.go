package server

import (
	"bufio"
	"log"
	"math/rand/v2"
	"os"
	"strings"
	"sync"

	"sketchparty/internal/db"

	"gorm.io/gorm"
)

// WordSource supplies the secret word for each round.
type WordSource interface {
	RandomWord() string
}

// wordList is a fixed in-memory word source.
type wordList struct {
	words []string
}

func newWordList(words []string) *wordList {
	if len(words) == 0 {
		words = defaultWords()
	}
	return &wordList{words: words}
}

func (w *wordList) RandomWord() string {
	return w.words[rand.IntN(len(w.words))]
}

// dbWordSource draws from the words table, loaded once up front. Fetch
// failures are logged and the embedded list is used instead; picking a
// word never blocks a command on database I/O.
type dbWordSource struct {
	mu       sync.Mutex
	conn     *gorm.DB
	loaded   bool
	words    []string
	fallback *wordList
}

func (w *dbWordSource) RandomWord() string {
	w.mu.Lock()
	if !w.loaded {
		w.loaded = true
		var records []db.Word
		if err := w.conn.Find(&records).Error; err != nil {
			log.Printf("word list fetch failed error=%v", err)
		}
		for _, record := range records {
			if text := strings.TrimSpace(record.Text); text != "" {
				w.words = append(w.words, text)
			}
		}
		log.Printf("word list loaded count=%d", len(w.words))
	}
	words := w.words
	w.mu.Unlock()
	if len(words) == 0 {
		return w.fallback.RandomWord()
	}
	return words[rand.IntN(len(words))]
}

// newWordSource prefers the database-backed word list, then a words file,
// then the embedded defaults.
func newWordSource(conn *gorm.DB, wordsFile string) WordSource {
	fallback := newWordList(readWordsFile(wordsFile))
	if conn == nil {
		return fallback
	}
	return &dbWordSource{conn: conn, fallback: fallback}
}

func readWordsFile(path string) []string {
	if path == "" {
		return nil
	}
	file, err := os.Open(path)
	if err != nil {
		log.Printf("words file unavailable path=%s error=%v", path, err)
		return nil
	}
	defer file.Close()
	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if text := strings.TrimSpace(scanner.Text()); text != "" {
			words = append(words, text)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("words file read failed path=%s error=%v", path, err)
		return nil
	}
	return words
}

func defaultWords() []string {
	return []string{
		"apple", "banana", "bridge", "camera", "castle", "cloud",
		"dolphin", "dragon", "elephant", "fire", "flower", "guitar",
		"hammer", "island", "kite", "ladder", "lighthouse", "mirror",
		"mountain", "mushroom", "ocean", "penguin", "piano", "pirate",
		"pizza", "planet", "pyramid", "rainbow", "robot", "rocket",
		"sandwich", "snowman", "spider", "submarine", "telescope",
		"tiger", "tornado", "train", "umbrella", "violin", "volcano",
		"waterfall", "whale", "windmill", "wizard", "zebra",
	}
}
