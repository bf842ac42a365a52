package pgn

import (
	"fmt"

	"github.com/notnil/chess"
)

const (
	GameResultNone     = "*"
	GameResultWhiteWin = "1-0"
	GameResultBlackWin = "0-1"
	GameResultDraw     = "1/2-1/2"
)

type Tag struct {
	Key   string
	Value string
}

// GameRaw is one game split out of a PGN stream, not parsed yet.
// Index is 1-based position of the game in the stream, Line is the line the game starts at.
type GameRaw struct {
	Index    int
	Line     int
	Tags     []Tag
	Movetext string
}

type Game struct {
	Tags   []Tag
	Root   *Node
	Result string
}

func (g *Game) TagValue(key string) (string, bool) {
	return tagValue(g.Tags, key)
}

// MainLine returns the nodes of the principal line, root excluded.
func (g *Game) MainLine() []*Node {
	var result []*Node
	for node := g.Root.MainLine(); node != nil; node = node.MainLine() {
		result = append(result, node)
	}
	return result
}

// Node is a point in the move tree. Variations[0] is the main line.
type Node struct {
	SAN        string
	Move       *chess.Move
	Comment    string
	Nags       []int
	Parent     *Node
	Variations []*Node
	position   *chess.Position
}

func (n *Node) Board() *chess.Position {
	return n.position
}

func (n *Node) MainLine() *Node {
	if len(n.Variations) == 0 {
		return nil
	}
	return n.Variations[0]
}

func (n *Node) Ply() int {
	var ply int
	for node := n.Parent; node != nil; node = node.Parent {
		ply++
	}
	return ply
}

func (n *Node) addVariation(san string, move *chess.Move) *Node {
	var child = &Node{
		SAN:      san,
		Move:     move,
		Parent:   n,
		position: n.position.Update(move),
	}
	n.Variations = append(n.Variations, child)
	return child
}

type ParseError struct {
	Game  int
	Line  int
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("pgn: game %v (line %v): %v", e.Game, e.Line, e.Err)
	}
	return fmt.Sprintf("pgn: game %v (line %v): token %q: %v", e.Game, e.Line, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func tagValue(tags []Tag, key string) (string, bool) {
	for _, tag := range tags {
		if tag.Key == key {
			return tag.Value, true
		}
	}
	return "", false
}
