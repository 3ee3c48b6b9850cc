package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"backoffice/catalog/internal/domain/asset"
	productusecase "backoffice/catalog/internal/usecase/product"

	"github.com/shopspring/decimal"
)

var errUsage = errors.New("invalid usage")

// action runs a parsed command against the wired application.
type action func(ctx context.Context, a *app) error

// command parses its flags and returns the action to run.
type command func(args []string) (action, error)

var commands = map[string]command{
	"migrate":    parseMigrate,
	"categories": parseCategories,
	"list":       parseList,
	"get":        parseGet,
	"create":     parseCreate,
	"update":     parseUpdate,
	"delete":     parseDelete,
	"image":      parseImage,
	"verify":     parseVerify,
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, fs.Name(), err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: %s: unexpected argument %q", errUsage, fs.Name(), fs.Arg(0))
	}
	return nil
}

func parseMigrate(args []string) (action, error) {
	if err := parseFlags(newFlagSet("migrate"), args); err != nil {
		return nil, err
	}
	return func(ctx context.Context, a *app) error {
		if err := a.db.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
		a.logger.Info("schema applied")
		return nil
	}, nil
}

func parseCategories(args []string) (action, error) {
	if err := parseFlags(newFlagSet("categories"), args); err != nil {
		return nil, err
	}
	return func(ctx context.Context, a *app) error {
		choices, err := a.categories.Choices(ctx)
		if err != nil {
			return err
		}
		return printJSON(a.out, choices)
	}, nil
}

func parseList(args []string) (action, error) {
	if err := parseFlags(newFlagSet("list"), args); err != nil {
		return nil, err
	}
	return func(ctx context.Context, a *app) error {
		products, err := a.products.List(ctx)
		if err != nil {
			return err
		}
		return printJSON(a.out, products)
	}, nil
}

func parseGet(args []string) (action, error) {
	fs := newFlagSet("get")
	id := fs.Int64("id", 0, "product id")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	return func(ctx context.Context, a *app) error {
		p, err := a.products.Get(ctx, *id)
		if err != nil {
			return err
		}
		return printJSON(a.out, p)
	}, nil
}

func parseCreate(args []string) (action, error) {
	fs := newFlagSet("create")
	name := fs.String("name", "", "product name")
	description := fs.String("description", "", "product description")
	price := fs.String("price", "0", "unit price")
	stock := fs.Int("stock", 0, "units in stock")
	categoryID := fs.Int64("category", 0, "category id")
	image := fs.String("image", "", "path of an image file to upload")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(*price)
	if err != nil {
		return nil, fmt.Errorf("%w: create: price %q: %v", errUsage, *price, err)
	}
	input := productusecase.CreateInput{
		Name:        *name,
		Description: *description,
		Price:       amount,
		Stock:       *stock,
		CategoryID:  *categoryID,
	}

	return func(ctx context.Context, a *app) error {
		upload, closeFn, err := openUpload(*image)
		if err != nil {
			return err
		}
		defer closeFn()
		input.Image = upload

		p, err := a.products.Create(ctx, input)
		if err != nil {
			return err
		}
		return printJSON(a.out, p)
	}, nil
}

func parseUpdate(args []string) (action, error) {
	fs := newFlagSet("update")
	id := fs.Int64("id", 0, "product id")
	name := fs.String("name", "", "product name")
	description := fs.String("description", "", "product description")
	price := fs.String("price", "", "unit price")
	stock := fs.Int("stock", 0, "units in stock")
	categoryID := fs.Int64("category", 0, "category id")
	image := fs.String("image", "", "path of a replacement image file")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}

	var input productusecase.UpdateInput
	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			input.Name = name
		case "description":
			input.Description = description
		case "price":
			amount, err := decimal.NewFromString(*price)
			if err != nil {
				parseErr = fmt.Errorf("%w: update: price %q: %v", errUsage, *price, err)
				return
			}
			input.Price = &amount
		case "stock":
			input.Stock = stock
		case "category":
			input.CategoryID = categoryID
		}
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return func(ctx context.Context, a *app) error {
		upload, closeFn, err := openUpload(*image)
		if err != nil {
			return err
		}
		defer closeFn()
		input.Image = upload

		p, err := a.products.Update(ctx, *id, input)
		if err != nil {
			return err
		}
		return printJSON(a.out, p)
	}, nil
}

func parseDelete(args []string) (action, error) {
	fs := newFlagSet("delete")
	id := fs.Int64("id", 0, "product id")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	return func(ctx context.Context, a *app) error {
		if err := a.products.Delete(ctx, *id); err != nil {
			return err
		}
		return printJSON(a.out, map[string]int64{"deleted": *id})
	}, nil
}

func parseImage(args []string) (action, error) {
	fs := newFlagSet("image")
	id := fs.Int64("id", 0, "product id")
	out := fs.String("out", "", "file to write the image to")
	if err := parseFlags(fs, args); err != nil {
		return nil, err
	}
	if *out == "" {
		return nil, fmt.Errorf("%w: image: -out is required", errUsage)
	}
	return func(ctx context.Context, a *app) error {
		path, r, err := a.products.OpenImage(ctx, *id)
		if err != nil {
			return err
		}
		defer r.Close()
		n, err := copyToFile(*out, r)
		if err != nil {
			return err
		}
		return printJSON(a.out, map[string]any{"image": path, "bytes": n, "out": *out})
	}, nil
}

func parseVerify(args []string) (action, error) {
	if err := parseFlags(newFlagSet("verify"), args); err != nil {
		return nil, err
	}
	return func(ctx context.Context, a *app) error {
		missing, err := a.products.MissingImages(ctx)
		if err != nil {
			return err
		}
		if err := printJSON(a.out, missing); err != nil {
			return err
		}
		if len(missing) > 0 {
			return fmt.Errorf("%d product(s) reference missing images", len(missing))
		}
		return nil
	}, nil
}

func copyToFile(name string, r io.Reader) (int64, error) {
	f, err := os.Create(name)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", name, err)
	}
	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return n, fmt.Errorf("write %s: %w", name, err)
	}
	return n, nil
}

// openUpload opens file as an upload. An empty name means no upload.
func openUpload(file string) (*asset.Upload, func(), error) {
	if file == "" {
		return nil, func() {}, nil
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, nil, fmt.Errorf("open image: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("stat image: %w", err)
	}
	upload := &asset.Upload{
		Filename: filepath.Base(file),
		Size:     info.Size(),
		Content:  f,
	}
	return upload, func() { _ = f.Close() }, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
