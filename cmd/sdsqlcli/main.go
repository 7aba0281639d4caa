// Command sdsqlcli is a minimal, line-oriented front end over the
// client package, for manually exercising an sdsqld server. It is
// explicitly not a SQL parser: each line is a verb followed by
// whitespace-separated positional arguments.
//
//	login <user> <password>
//	createdb <name>
//	dropdb <name>
//	use <name>
//	createtable <table> <col:type[:pk]>...
//	droptable <table>
//	insert <table> <value>...
//	select <table> [where <expr>] [orderby <col>]
//	update <table> <col>=<value>[,<col>=<value>...> [where <expr>]
//	delete <table> [where <expr>]
//	begin
//	commit
//	rollback
//	quit
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sdsql/sdsql/client"
	"github.com/sdsql/sdsql/internal/wire"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:4399", "server address")
	flag.Parse()

	c, err := client.Dial(context.Background(), *addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial %s: %v\n", *addr, err)
		os.Exit(1)
	}
	defer c.Close()

	fmt.Printf("connected to %s\n", *addr)
	repl(c, os.Stdin, os.Stdout)
}

func repl(c *client.Client, in *os.File, out *os.File) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "sdsql> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		verb := strings.ToLower(fields[0])
		args := fields[1:]
		if verb == "quit" || verb == "exit" {
			return
		}
		if err := dispatch(c, out, verb, args); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func dispatch(c *client.Client, out *os.File, verb string, args []string) error {
	switch verb {
	case "login":
		if len(args) != 2 {
			return fmt.Errorf("usage: login <user> <password>")
		}
		return c.Login(args[0], args[1])

	case "createdb":
		if len(args) != 1 {
			return fmt.Errorf("usage: createdb <name>")
		}
		return c.CreateDatabase(args[0])

	case "dropdb":
		if len(args) != 1 {
			return fmt.Errorf("usage: dropdb <name>")
		}
		return c.DropDatabase(args[0])

	case "use":
		if len(args) != 1 {
			return fmt.Errorf("usage: use <name>")
		}
		return c.UseDatabase(args[0])

	case "createtable":
		if len(args) < 2 {
			return fmt.Errorf("usage: createtable <table> <col:type[:pk]>...")
		}
		cols, err := parseColumnDefs(args[1:])
		if err != nil {
			return err
		}
		return c.CreateTable(args[0], cols)

	case "droptable":
		if len(args) != 1 {
			return fmt.Errorf("usage: droptable <table>")
		}
		return c.DropTable(args[0])

	case "insert":
		if len(args) < 1 {
			return fmt.Errorf("usage: insert <table> <value>...")
		}
		values := make([]wire.Literal, 0, len(args)-1)
		for _, v := range args[1:] {
			values = append(values, wire.Literal{Value: v})
		}
		return c.Insert(args[0], values)

	case "select":
		if len(args) < 1 {
			return fmt.Errorf("usage: select <table> [where <expr>] [orderby <col>]")
		}
		where, orderBy := parseWhereOrderBy(args[1:])
		cols, rows, err := c.Select(args[0], nil, where, orderBy)
		if err != nil {
			return err
		}
		printTable(out, cols, rows)
		return nil

	case "update":
		if len(args) < 2 {
			return fmt.Errorf("usage: update <table> <col>=<value>[,...] [where <expr>]")
		}
		clauses, err := parseSetClauses(args[1])
		if err != nil {
			return err
		}
		where, _ := parseWhereOrderBy(args[2:])
		n, err := c.Update(args[0], clauses, where)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d row(s) affected\n", n)
		return nil

	case "delete":
		if len(args) < 1 {
			return fmt.Errorf("usage: delete <table> [where <expr>]")
		}
		where, _ := parseWhereOrderBy(args[1:])
		n, err := c.Delete(args[0], where)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%d row(s) affected\n", n)
		return nil

	case "begin":
		return c.Begin()
	case "commit":
		return c.Commit()
	case "rollback":
		return c.Rollback()

	default:
		return fmt.Errorf("unknown command %q", verb)
	}
}

func parseColumnDefs(specs []string) ([]wire.ColumnDef, error) {
	cols := make([]wire.ColumnDef, 0, len(specs))
	for _, spec := range specs {
		parts := strings.Split(spec, ":")
		if len(parts) < 2 {
			return nil, fmt.Errorf("bad column spec %q, want name:type[:pk]", spec)
		}
		typ, err := parseDataType(parts[1])
		if err != nil {
			return nil, err
		}
		cols = append(cols, wire.ColumnDef{
			Name:      parts[0],
			Type:      typ,
			IsPrimary: len(parts) == 3 && strings.EqualFold(parts[2], "pk"),
		})
	}
	return cols, nil
}

func parseDataType(s string) (wire.DataType, error) {
	switch strings.ToUpper(s) {
	case "INT":
		return wire.TypeInt, nil
	case "DOUBLE":
		return wire.TypeDouble, nil
	case "STRING":
		return wire.TypeString, nil
	case "BOOL":
		return wire.TypeBool, nil
	default:
		return 0, fmt.Errorf("unknown column type %q", s)
	}
}

func parseSetClauses(s string) ([]wire.SetClause, error) {
	pairs := strings.Split(s, ",")
	clauses := make([]wire.SetClause, 0, len(pairs))
	for _, p := range pairs {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("bad assignment %q, want col=value", p)
		}
		clauses = append(clauses, wire.SetClause{Column: kv[0], Value: wire.Literal{Value: kv[1]}})
	}
	return clauses, nil
}

// parseWhereOrderBy scans trailing "where <expr>" / "orderby <col>"
// keyword clauses out of a command's remaining arguments. "where"
// consumes every token up to (but not including) a following
// "orderby", since a WHERE expression may itself contain spaces.
func parseWhereOrderBy(args []string) (where, orderBy string) {
	i := 0
	for i < len(args) {
		switch strings.ToLower(args[i]) {
		case "where":
			j := i + 1
			for j < len(args) && !strings.EqualFold(args[j], "orderby") {
				j++
			}
			where = strings.Join(args[i+1:j], " ")
			i = j
		case "orderby":
			if i+1 < len(args) {
				orderBy = args[i+1]
			}
			i += 2
		default:
			i++
		}
	}
	return where, orderBy
}

func printTable(out *os.File, cols []string, rows [][]string) {
	fmt.Fprintln(out, strings.Join(cols, "\t"))
	for _, row := range rows {
		fmt.Fprintln(out, strings.Join(row, "\t"))
	}
}
