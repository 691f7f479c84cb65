package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/2beens/goalprogress/pkg"

	log "github.com/sirupsen/logrus"
)

// prints the bcrypt hash to put into GOAL_PROGRESS_API_KEY_HASH
func main() {
	key := flag.String("key", "", "api key to hash; read from stdin when empty")
	cost := flag.Int("cost", pkg.DefaultKeyHashCost, "bcrypt cost")
	flag.Parse()

	if *key == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatalf("read key from stdin: %s", err)
		}
		*key = strings.TrimSpace(line)
	}

	hash, err := pkg.HashKey(*key, *cost)
	if err != nil {
		log.Fatalf("hash key: %s", err)
	}
	fmt.Println(hash)
}
