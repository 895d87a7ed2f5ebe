package main

import "github.com/DerickDutraDev/store-GBS/cmd"

func main() {
	cmd.Execute()
}
