package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	booleanFlagTypeName       = "bool"
	booleanFlagTrueLiteral    = "true"
	booleanFlagAcceptedValues = "true, false, yes, no, on, off, 1, 0"
	errorBooleanFlagFormat    = "invalid boolean value %q for --%s; accepted values: %s"
	argumentTerminator        = "--"
	longFlagPrefix            = "--"
	flagValueSeparator        = "="
	inlineBooleanFlagFormat   = "--%s=%s"
	flagIndicator             = "-"
)

var booleanFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// booleanFlagValue is a pflag.Value accepting yes/no style literals in addition to true/false.
type booleanFlagValue struct {
	target   *bool
	flagName string
}

func (value *booleanFlagValue) Set(input string) error {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = booleanFlagTrueLiteral
	}
	parsed, known := booleanFlagLiterals[normalized]
	if !known || value.target == nil {
		return fmt.Errorf(errorBooleanFlagFormat, input, value.flagName, booleanFlagAcceptedValues)
	}
	*value.target = parsed
	return nil
}

func (value *booleanFlagValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *booleanFlagValue) Type() string {
	return booleanFlagTypeName
}

// registerBooleanFlag defines a boolean flag that may be given bare, as --name=value or as --name value.
func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&booleanFlagValue{target: target, flagName: name}, name, usage)
	if lookup := flagSet.Lookup(name); lookup != nil {
		lookup.DefValue = strconv.FormatBool(defaultValue)
		lookup.NoOptDefVal = booleanFlagTrueLiteral
	}
}

// normalizeBooleanFlagArguments joins "--name value" into "--name=value" for boolean flags whose
// following argument is a boolean literal. The literal is joined only when another positional
// argument remains, so a root folder named like a literal ("n", "on") is still taken as the root.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	flagKinds := newFlagKinds()
	collectFlagKinds(command, flagKinds)
	if len(flagKinds.booleanNames) == 0 {
		return arguments
	}
	positionalIndexes := flagKinds.positionalIndexes(arguments)
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		currentArgument := arguments[index]
		if currentArgument == argumentTerminator {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		if strings.HasPrefix(currentArgument, longFlagPrefix) && !strings.Contains(currentArgument, flagValueSeparator) && index+1 < len(arguments) {
			flagName := string(normalizeFlagName(nil, strings.TrimPrefix(currentArgument, longFlagPrefix)))
			nextArgument := arguments[index+1]
			_, isBoolean := flagKinds.booleanNames[flagName]
			_, isLiteral := booleanFlagLiterals[strings.ToLower(strings.TrimSpace(nextArgument))]
			_, nextIsPositional := positionalIndexes[index+1]
			if isBoolean && isLiteral && nextIsPositional && len(positionalIndexes) > 1 {
				normalized = append(normalized, fmt.Sprintf(inlineBooleanFlagFormat, flagName, nextArgument))
				delete(positionalIndexes, index+1)
				index++
				continue
			}
		}
		normalized = append(normalized, currentArgument)
	}
	return normalized
}

// flagKinds records which flags of a command tree take no value and which consume the next argument.
type flagKinds struct {
	booleanNames    map[string]struct{}
	valueNames      map[string]struct{}
	valueShorthands map[string]struct{}
}

func newFlagKinds() flagKinds {
	return flagKinds{
		booleanNames:    map[string]struct{}{},
		valueNames:      map[string]struct{}{},
		valueShorthands: map[string]struct{}{},
	}
}

// positionalIndexes returns the indexes of arguments that are neither flags nor values of
// value-taking flags. Literals following boolean flags count as positional.
func (kinds flagKinds) positionalIndexes(arguments []string) map[int]struct{} {
	positional := map[int]struct{}{}
	for index := 0; index < len(arguments); index++ {
		currentArgument := arguments[index]
		switch {
		case currentArgument == argumentTerminator:
			for remaining := index + 1; remaining < len(arguments); remaining++ {
				positional[remaining] = struct{}{}
			}
			return positional
		case strings.HasPrefix(currentArgument, longFlagPrefix):
			flagName := string(normalizeFlagName(nil, strings.TrimPrefix(currentArgument, longFlagPrefix)))
			if _, takesValue := kinds.valueNames[flagName]; takesValue {
				index++
			}
		case strings.HasPrefix(currentArgument, flagIndicator) && len(currentArgument) > 1:
			if _, takesValue := kinds.valueShorthands[strings.TrimPrefix(currentArgument, flagIndicator)]; takesValue {
				index++
			}
		default:
			positional[index] = struct{}{}
		}
	}
	return positional
}

func collectFlagKinds(command *cobra.Command, target flagKinds) {
	visit := func(flagSet *pflag.FlagSet) {
		flagSet.VisitAll(func(flag *pflag.Flag) {
			if flag.Value == nil {
				return
			}
			if flag.Value.Type() == booleanFlagTypeName {
				target.booleanNames[flag.Name] = struct{}{}
				return
			}
			target.valueNames[flag.Name] = struct{}{}
			if flag.Shorthand != "" {
				target.valueShorthands[flag.Shorthand] = struct{}{}
			}
		})
	}
	visit(command.PersistentFlags())
	visit(command.Flags())
	for _, child := range command.Commands() {
		collectFlagKinds(child, target)
	}
}
