// Command boardctl inspects and edits stored boards from a terminal. It
// reads the same environment as the server to find the store.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	osclip "golang.design/x/clipboard"

	"github.com/inamate/whiteboard/internal/auth"
	"github.com/inamate/whiteboard/internal/board"
	"github.com/inamate/whiteboard/internal/clipboard"
	"github.com/inamate/whiteboard/internal/config"
	"github.com/inamate/whiteboard/internal/discovery"
	"github.com/inamate/whiteboard/internal/render/raster"
	"github.com/inamate/whiteboard/internal/shape"
	"github.com/inamate/whiteboard/internal/store"
)

const usage = `usage: boardctl <command> [flags]

commands:
  list            list stored boards
  export          render a board to png or pdf
  copy            copy a shape (or the board as an image) to the system clipboard
  paste           paste a shape from the system clipboard into a board
  discover        find whiteboard servers on the local network
  hash-password   print a bcrypt hash for OWNER_PASSWORD_HASH
`

var errUsage = errors.New("usage")

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err := run(context.Background(), os.Args[1], os.Args[2:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "boardctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, name string, args []string) error {
	switch name {
	case "discover":
		return discover(args)
	case "hash-password":
		return hashPassword(args)
	case "list", "export", "copy", "paste":
	default:
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	b := &boards{cfg: cfg}
	switch name {
	case "list":
		return b.list(ctx, args)
	case "export":
		return b.export(ctx, args)
	case "copy":
		return b.copyShape(ctx, args)
	default:
		return b.pasteShape(ctx, args)
	}
}

// boards opens the configured store for commands that work on boards.
// The environment sets the defaults and each command's flags override it.
type boards struct {
	cfg     *config.Config
	release func()
}

func (b *boards) flags(fs *flag.FlagSet) {
	fs.StringVar(&b.cfg.StoreDriver, "store", b.cfg.StoreDriver, "store driver: file, postgres or memory")
	fs.StringVar(&b.cfg.DataDir, "data-dir", b.cfg.DataDir, "board directory for the file store")
	fs.StringVar(&b.cfg.DatabaseURL, "database-url", b.cfg.DatabaseURL, "postgres connection string")
}

func (b *boards) open(ctx context.Context) (*board.Service, error) {
	st, release, err := store.Open(ctx, b.cfg.StoreDriver, b.cfg.DataDir, b.cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	b.release = release
	return board.NewService(st, nil, b.cfg.StorageKey), nil
}

func (b *boards) close() {
	if b.release != nil {
		b.release()
	}
}

func (b *boards) list(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	b.flags(fs)
	fs.Parse(args)
	svc, err := b.open(ctx)
	if err != nil {
		return err
	}
	defer b.close()

	all, err := svc.List(ctx)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		fmt.Fprintln(os.Stdout, "no boards stored")
		return nil
	}
	for _, bd := range all {
		fmt.Fprintf(os.Stdout, "%s\t%d shapes\n", bd.ID, bd.Shapes)
	}
	return nil
}

func (b *boards) export(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	b.flags(fs)
	id := fs.String("board", board.DefaultAlias, "board id")
	format := fs.String("format", "png", "png or pdf")
	bg := fs.String("background", shape.CanvasBackgrounds[0], "canvas color")
	out := fs.String("o", "", "output file (default stdout)")
	fs.Parse(args)

	exp, err := board.Exporter(*format)
	if err != nil {
		return err
	}
	background, err := shape.NormalizeColor(*bg)
	if err != nil {
		return err
	}
	svc, err := b.open(ctx)
	if err != nil {
		return err
	}
	defer b.close()

	var buf bytes.Buffer
	if err := svc.Export(ctx, *id, exp, background, &buf); err != nil {
		return err
	}
	if *out == "" {
		_, err = os.Stdout.Write(buf.Bytes())
		return err
	}
	return os.WriteFile(*out, buf.Bytes(), 0o644)
}

// copyShape puts one shape on the system clipboard as JSON, or with -image
// the whole board as a PNG.
func (b *boards) copyShape(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("copy", flag.ExitOnError)
	b.flags(fs)
	id := fs.String("board", board.DefaultAlias, "board id")
	shapeID := fs.String("id", "", "shape id")
	image := fs.Bool("image", false, "copy the board as a png instead")
	fs.Parse(args)

	if !*image && *shapeID == "" {
		return errors.New("copy: -id or -image is required")
	}
	if err := osclip.Init(); err != nil {
		return fmt.Errorf("system clipboard: %w", err)
	}
	svc, err := b.open(ctx)
	if err != nil {
		return err
	}
	defer b.close()

	if *image {
		var buf bytes.Buffer
		if err := svc.Export(ctx, *id, raster.Exporter{}, shape.CanvasBackgrounds[0], &buf); err != nil {
			return err
		}
		osclip.Write(osclip.FmtImage, buf.Bytes())
		return nil
	}

	scene, err := loadScene(ctx, svc, *id)
	if err != nil {
		return err
	}
	i := shape.Index(scene, *shapeID)
	if i < 0 {
		return fmt.Errorf("shape %s not found", *shapeID)
	}
	data, err := json.Marshal(scene[i])
	if err != nil {
		return err
	}
	osclip.Write(osclip.FmtText, data)
	fmt.Fprintf(os.Stdout, "copied %s %s\n", scene[i].Kind(), *shapeID)
	return nil
}

// pasteShape adds the shape on the system clipboard to a board with a new
// id, offset like an in-app paste.
func (b *boards) pasteShape(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("paste", flag.ExitOnError)
	b.flags(fs)
	id := fs.String("board", board.DefaultAlias, "board id")
	fs.Parse(args)

	if err := osclip.Init(); err != nil {
		return fmt.Errorf("system clipboard: %w", err)
	}
	data := osclip.Read(osclip.FmtText)
	if len(data) == 0 {
		return errors.New("system clipboard holds no text")
	}
	s, err := shape.Decode(data)
	if err != nil {
		return fmt.Errorf("clipboard is not a shape: %w", err)
	}

	var clip clipboard.Clipboard
	clip.Copy(s)
	pasted, _ := clip.Paste()

	svc, err := b.open(ctx)
	if err != nil {
		return err
	}
	defer b.close()

	scene, err := loadScene(ctx, svc, *id)
	if errors.Is(err, board.ErrNotFound) {
		scene, err = nil, nil
	}
	if err != nil {
		return err
	}
	scene = append(scene, pasted)
	encoded, err := shape.EncodeScene(scene)
	if err != nil {
		return err
	}
	if _, err := svc.PutScene(ctx, *id, encoded); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "pasted %s %s\n", pasted.Kind(), pasted.Base().ID)
	return nil
}

func loadScene(ctx context.Context, svc *board.Service, id string) ([]shape.Shape, error) {
	data, err := svc.Scene(ctx, id)
	if err != nil {
		return nil, err
	}
	return shape.DecodeScene(data)
}

func discover(args []string) error {
	fs := flag.NewFlagSet("discover", flag.ExitOnError)
	timeout := fs.Duration("timeout", 2*time.Second, "how long to listen")
	fs.Parse(args)

	servers, err := discovery.Browse(*timeout)
	if err != nil {
		return err
	}
	if len(servers) == 0 {
		fmt.Fprintln(os.Stdout, "no servers found")
		return nil
	}
	for _, s := range servers {
		fmt.Fprintf(os.Stdout, "%s\t%s\t%s\n", s.Addr, s.Instance, strings.Join(s.Info, " "))
	}
	return nil
}

// hashPassword reads the password from the first argument or stdin.
func hashPassword(args []string) error {
	var password string
	if len(args) > 0 {
		password = args[0]
	} else {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return errors.New("empty password")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, hash)
	return nil
}
