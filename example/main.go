// example/main.go
package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"

	"github.com/kohldev/asterix-engine/asterix"
	"github.com/kohldev/asterix-engine/catalog"
	"github.com/kohldev/asterix-engine/decode"
)

func main() {
	cat := catalog.Builtin()

	conn, err := net.Dial("tcp", "localhost:21000")
	if err != nil {
		fmt.Printf("Failed to connect: %v\n", err)
		return
	}
	defer conn.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	buf := make([]byte, 4096)
	remainder := make([]byte, 0)

	for {
		select {
		case <-interrupt:
			fmt.Println("\nShutting down...")
			return
		default:
			n, err := conn.Read(buf)
			if err != nil {
				if err == io.EOF {
					fmt.Println("Connection closed")
					return
				}
				fmt.Printf("Error reading from connection: %v\n", err)
				return
			}

			data := append(remainder, buf[:n]...)
			remainder = nil

			result := asterix.Parse(cat, data, asterix.Options{})
			for _, err := range result.Errors {
				fmt.Printf("decode error: %v\n", err)
			}

			for _, blk := range result.Blocks {
				for i, rec := range blk.Records {
					fmt.Printf("\nCategory %d, Record %d:\n", blk.Category, i+1)
					printItems(rec.Items)
				}
			}
		}
	}
}

func printItems(items []*decode.DataItem) {
	for _, item := range items {
		fmt.Printf("  %s (%s): ok=%v\n", item.Description.ID, item.Description.Name, item.Ok)
		for _, f := range item.Value.Fields {
			fmt.Printf("    %s = %+v\n", f.Name, f.Value)
		}
	}
}
