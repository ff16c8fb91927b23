// Package flagx lets several components parse their own subset of the
// command line without tripping over flags they do not define.
package flagx

import (
	"flag"
	"os"
	"strconv"
	"strings"
)

// FilterArgs keeps only the flags listed in allowedFlags, together with
// their values.
//
// Accepted forms:
//
//	-a value
//	-a=value
//	--config=conf.json
//
// A token following an allowed flag is taken as its value when it does not
// start with "-" or when it is a number, so "-lat -33.45" keeps the negative
// coordinate.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}

		filtered = append(filtered, arg)
		if i+1 < len(args) && isValue(args[i+1]) {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

func isValue(token string) bool {
	if !strings.HasPrefix(token, "-") {
		return true
	}
	_, err := strconv.ParseFloat(token, 64)
	return err == nil
}

// JsonConfigFlags returns the config file path given with -c or -config,
// or an empty string when neither is present. When both are given the last
// one wins.
func JsonConfigFlags() string {
	var config string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return config
}
